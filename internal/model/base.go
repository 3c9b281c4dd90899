package model

import (
	"time"
)

// Base contains common fields for the tables this service writes to
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DateRange bounds a query by calendar date, both ends inclusive.
// A zero bound is open.
type DateRange struct {
	From Date
	To   Date
}
