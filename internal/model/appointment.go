package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// AppointmentStatus is stored as the integer id of the appointment_statuses row.
type AppointmentStatus int

const (
	AppointmentStatusScheduled AppointmentStatus = iota + 1
	AppointmentStatusConfirmed
	AppointmentStatusCanceled
	AppointmentStatusCompleted
)

var statusNames = map[AppointmentStatus]string{
	AppointmentStatusScheduled: "scheduled",
	AppointmentStatusConfirmed: "confirmed",
	AppointmentStatusCanceled:  "canceled",
	AppointmentStatusCompleted: "completed",
}

func ParseAppointmentStatus(name string) (AppointmentStatus, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("unknown appointment status %q", name)
}

func (s AppointmentStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s AppointmentStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s AppointmentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AppointmentStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseAppointmentStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s AppointmentStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid appointment status %d", int(s))
	}
	return int64(s), nil
}

func (s *AppointmentStatus) Scan(src interface{}) error {
	var code int64
	switch v := src.(type) {
	case int64:
		code = v
	case int32:
		code = int64(v)
	case []byte:
		if _, err := fmt.Sscan(string(v), &code); err != nil {
			return fmt.Errorf("scan appointment status: %w", err)
		}
	case nil:
		return fmt.Errorf("scan appointment status: null")
	default:
		return fmt.Errorf("cannot scan %T into AppointmentStatus", src)
	}
	// Unknown codes are kept as-is so rows referencing statuses added later
	// still load; they render with the fallback color.
	*s = AppointmentStatus(code)
	return nil
}

type Appointment struct {
	Base
	PatientID   int64             `db:"patient_id" json:"patient_id"`
	ProviderID  int64             `db:"provider_id" json:"provider_id"`
	ProcedureID int64             `db:"procedure_id" json:"procedure_id"`
	InsuranceID int64             `db:"insurance_id" json:"insurance_id"`
	Date        Date              `db:"date" json:"date"`
	Hour        int               `db:"hour" json:"hour"`
	Status      AppointmentStatus `db:"status" json:"status"`
	TotalValue  float64           `db:"total_value" json:"total_value"`
}

type CreateAppointmentRequest struct {
	PatientID   int64   `json:"patient_id" binding:"required,gt=0"`
	ProviderID  int64   `json:"provider_id" binding:"required,gt=0"`
	ProcedureID int64   `json:"procedure_id" binding:"required,gt=0"`
	InsuranceID int64   `json:"insurance_id" binding:"omitempty,gt=0"`
	Date        string  `json:"date" binding:"required,isodate"`
	Hour        *int    `json:"hour" binding:"required,min=0,max=23"`
	TotalValue  float64 `json:"total_value" binding:"omitempty,gte=0"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled confirmed canceled completed"`
}

type AppointmentFilters struct {
	ProviderID int64
	PatientID  int64
	Status     AppointmentStatus
	Dates      DateRange
}

// StatusInfo is a row of appointment_statuses. RGB holds "r,g,b".
type StatusInfo struct {
	ID          AppointmentStatus `db:"id" json:"id"`
	Description string            `db:"description" json:"description"`
	RGB         string            `db:"rgb" json:"rgb"`
}

// Color renders the row color as a CSS rgb() value.
func (s StatusInfo) Color() string {
	if strings.TrimSpace(s.RGB) == "" {
		return ""
	}
	return "rgb(" + s.RGB + ")"
}
