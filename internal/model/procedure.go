package model

type Procedure struct {
	ID              int64   `db:"id" json:"id"`
	Name            string  `db:"name" json:"name"`
	Price           float64 `db:"price" json:"price"`
	AcceptInsurance Flag    `db:"accepts_insurance" json:"accepts_insurance"`
	Active          Flag    `db:"active" json:"active"`
}
