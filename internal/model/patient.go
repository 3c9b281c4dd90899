package model

type Patient struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Phone       string `db:"phone" json:"phone"`
	InsuranceID int64  `db:"insurance_id" json:"insurance_id"`
	Active      Flag   `db:"active" json:"active"`
}

// Flag is a boolean persisted as 0/1 in the legacy integer columns.
type Flag bool
