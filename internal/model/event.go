package model

import "time"

const (
	EventAppointmentScheduled     = "appointment.scheduled"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventAppointmentDeleted       = "appointment.deleted"
)

type AppointmentEvent struct {
	Type          string            `json:"type"`
	AppointmentID int64             `json:"appointment_id"`
	ProviderID    int64             `json:"provider_id"`
	PatientID     int64             `json:"patient_id"`
	Date          Date              `json:"date"`
	Hour          int               `json:"hour"`
	Status        AppointmentStatus `json:"status"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

func NewAppointmentEvent(eventType string, apt *Appointment, at time.Time) *AppointmentEvent {
	return &AppointmentEvent{
		Type:          eventType,
		AppointmentID: apt.ID,
		ProviderID:    apt.ProviderID,
		PatientID:     apt.PatientID,
		Date:          apt.Date,
		Hour:          apt.Hour,
		Status:        apt.Status,
		OccurredAt:    at,
	}
}
