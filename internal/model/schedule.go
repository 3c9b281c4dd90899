package model

// DaySnapshot is everything the allocator reads to render one day. It is
// loaded in a single read-only transaction.
type DaySnapshot struct {
	Date         Date
	Providers    []*Provider
	Windows      []*AvailabilityWindow
	Appointments []*Appointment
	Patients     map[int64]*Patient
	Statuses     map[AppointmentStatus]*StatusInfo
	Template     *MessageTemplate
}

// RangeSnapshot is the input of the multi-day grid.
type RangeSnapshot struct {
	Start        Date
	End          Date
	Appointments []*Appointment
	Patients     map[int64]*Patient
	Statuses     map[AppointmentStatus]*StatusInfo
}

// SlotView is one (provider, hour) row of the day schedule.
type SlotView struct {
	Hour             int               `json:"hour"`
	Label            string            `json:"label"`
	ProviderID       int64             `json:"provider_id"`
	ProviderName     string            `json:"provider_name"`
	Occupant         string            `json:"occupant"`
	Available        bool              `json:"available"`
	AppointmentID    int64             `json:"appointment_id,omitempty"`
	Status           AppointmentStatus `json:"status,omitempty"`
	Color            string            `json:"color"`
	ConfirmationText string            `json:"confirmation_text,omitempty"`
	ConfirmationLink string            `json:"confirmation_link,omitempty"`
}

// GridOccupant is one provider's appointment inside a range grid cell.
type GridOccupant struct {
	ProviderID    int64  `json:"provider_id"`
	AppointmentID int64  `json:"appointment_id"`
	PatientName   string `json:"patient_name"`
	Color         string `json:"color"`
}

type GridCell struct {
	Occupants []GridOccupant `json:"occupants"`
}

func (c GridCell) Empty() bool { return len(c.Occupants) == 0 }

// RangeGrid is indexed Cells[hour index][date index].
type RangeGrid struct {
	Dates      []Date       `json:"dates"`
	Hours      []int        `json:"hours"`
	HourLabels []string     `json:"hour_labels"`
	Cells      [][]GridCell `json:"cells"`
}
