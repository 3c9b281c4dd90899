package model

// MessageTemplate is the confirmation text staff configure for outbound
// messages.
type MessageTemplate struct {
	ID   int64  `db:"id" json:"id"`
	Text string `db:"text" json:"text"`
}
