package schedule

import (
	"fmt"
	"sort"

	"github.com/smartodonto/clinic-api/internal/model"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
)

const (
	LabelAvailable       = "Available"
	LabelPatientNotFound = "patient not found"
	LabelUnknownProvider = "unknown provider"
	NeutralColor         = "white"
)

// Config holds the allocator rules that differed between deployments of the
// scheduling pages.
type Config struct {
	BusinessFloor   int
	BusinessCeiling int
	// ClampToBusinessHours limits window hours to [BusinessFloor, BusinessCeiling].
	ClampToBusinessHours bool
	CountryCode          string
	// MaxRangeDays caps the number of dates a range grid may span.
	MaxRangeDays int
}

const DefaultMaxRangeDays = 92

func DefaultConfig() Config {
	return Config{
		BusinessFloor:        9,
		BusinessCeiling:      18,
		ClampToBusinessHours: true,
		CountryCode:          DefaultCountryCode,
		MaxRangeDays:         DefaultMaxRangeDays,
	}
}

// Allocator derives slots from availability windows and appointments. It is
// stateless; every call works only on its inputs.
type Allocator struct {
	cfg Config
}

func NewAllocator(cfg Config) *Allocator {
	if cfg.CountryCode == "" {
		cfg.CountryCode = DefaultCountryCode
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = DefaultMaxRangeDays
	}
	return &Allocator{cfg: cfg}
}

func (a *Allocator) Config() Config { return a.cfg }

type slotKey struct {
	providerID int64
	date       string
	hour       int
}

// WindowHours returns the bookable hours of a window, ascending.
func (a *Allocator) WindowHours(w *model.AvailabilityWindow) []int {
	start, end := w.StartHour, w.EndHour
	if a.cfg.ClampToBusinessHours {
		start = max(start, a.cfg.BusinessFloor)
		end = min(end, a.cfg.BusinessCeiling)
	}
	var hours []int
	for h := start; h <= end; h++ {
		hours = append(hours, h)
	}
	return hours
}

// BusinessHours returns the fixed hour axis [floor, ceiling].
func (a *Allocator) BusinessHours() []int {
	var hours []int
	for h := a.cfg.BusinessFloor; h <= a.cfg.BusinessCeiling; h++ {
		hours = append(hours, h)
	}
	return hours
}

// DaySchedule renders one SlotView per (provider, hour) for every provider
// with a window on snap.Date. Missing rows degrade to fallback labels.
func (a *Allocator) DaySchedule(snap *model.DaySnapshot) []model.SlotView {
	date := snap.Date.String()

	hoursByProvider := make(map[int64]map[int]struct{})
	var order []int64
	for _, w := range snap.Windows {
		if w.Date.String() != date {
			continue
		}
		set, ok := hoursByProvider[w.ProviderID]
		if !ok {
			set = make(map[int]struct{})
			hoursByProvider[w.ProviderID] = set
		}
		for _, h := range a.WindowHours(w) {
			set[h] = struct{}{}
		}
	}

	names := make(map[int64]string, len(snap.Providers))
	seen := make(map[int64]bool)
	for _, p := range snap.Providers {
		names[p.ID] = p.Name
		if _, ok := hoursByProvider[p.ID]; ok && !seen[p.ID] {
			order = append(order, p.ID)
			seen[p.ID] = true
		}
	}
	// windows pointing at a provider row that no longer exists
	for _, w := range snap.Windows {
		if _, ok := hoursByProvider[w.ProviderID]; ok && !seen[w.ProviderID] {
			order = append(order, w.ProviderID)
			seen[w.ProviderID] = true
		}
	}

	booked := indexAppointments(snap.Appointments)

	var slots []model.SlotView
	for _, providerID := range order {
		name, ok := names[providerID]
		if !ok {
			name = LabelUnknownProvider
		}

		hours := make([]int, 0, len(hoursByProvider[providerID]))
		for h := range hoursByProvider[providerID] {
			hours = append(hours, h)
		}
		sort.Ints(hours)

		for _, hour := range hours {
			slot := model.SlotView{
				Hour:         hour,
				Label:        HourLabel(hour),
				ProviderID:   providerID,
				ProviderName: name,
				Occupant:     LabelAvailable,
				Available:    true,
				Color:        NeutralColor,
			}
			if apt, ok := booked[slotKey{providerID, date, hour}]; ok {
				a.occupy(&slot, apt, snap)
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

func (a *Allocator) occupy(slot *model.SlotView, apt *model.Appointment, snap *model.DaySnapshot) {
	slot.Available = false
	slot.AppointmentID = apt.ID
	slot.Status = apt.Status
	slot.Color = statusColor(snap.Statuses, apt.Status)

	patient := snap.Patients[apt.PatientID]
	slot.Occupant = patientName(patient)

	if apt.Status != model.AppointmentStatusScheduled {
		return
	}
	slot.ConfirmationText = RenderConfirmationMessage(slot.Occupant, apt.Date, apt.Hour, snap.Template)
	if patient != nil && digitsOnly(patient.Phone) != "" {
		slot.ConfirmationLink = buildConfirmationLink(a.cfg.CountryCode, patient.Phone, slot.ConfirmationText)
	}
}

// RangeGrid lays appointments out on the fixed business-hour axis for every
// date in [start, end]. Appointments of different providers sharing a cell
// are all kept, ordered by provider id.
// ValidateRange rejects reversed ranges and ranges wider than MaxRangeDays.
func (a *Allocator) ValidateRange(start, end model.Date) error {
	if end.Before(start) {
		return apperrors.InvalidRange("start date must not be after end date")
	}
	if end.After(start.AddDays(a.cfg.MaxRangeDays - 1)) {
		return apperrors.InvalidRange(fmt.Sprintf("date range must not exceed %d days", a.cfg.MaxRangeDays))
	}
	return nil
}

func (a *Allocator) RangeGrid(snap *model.RangeSnapshot) (*model.RangeGrid, error) {
	if err := a.ValidateRange(snap.Start, snap.End); err != nil {
		return nil, err
	}

	dates := snap.Start.DaysUntil(snap.End)
	hours := a.BusinessHours()

	dateIdx := make(map[string]int, len(dates))
	for i, d := range dates {
		dateIdx[d.String()] = i
	}
	hourIdx := make(map[int]int, len(hours))
	labels := make([]string, len(hours))
	for i, h := range hours {
		hourIdx[h] = i
		labels[i] = HourLabel(h)
	}

	cells := make([][]model.GridCell, len(hours))
	for i := range cells {
		cells[i] = make([]model.GridCell, len(dates))
	}

	for _, apt := range snap.Appointments {
		di, ok := dateIdx[apt.Date.String()]
		if !ok {
			continue
		}
		hi, ok := hourIdx[apt.Hour]
		if !ok {
			continue
		}
		cell := &cells[hi][di]
		cell.Occupants = append(cell.Occupants, model.GridOccupant{
			ProviderID:    apt.ProviderID,
			AppointmentID: apt.ID,
			PatientName:   patientName(snap.Patients[apt.PatientID]),
			Color:         statusColor(snap.Statuses, apt.Status),
		})
	}

	for _, row := range cells {
		for i := range row {
			occ := row[i].Occupants
			sort.SliceStable(occ, func(x, y int) bool { return occ[x].ProviderID < occ[y].ProviderID })
		}
	}

	return &model.RangeGrid{
		Dates:      dates,
		Hours:      hours,
		HourLabels: labels,
		Cells:      cells,
	}, nil
}

// AvailableHours lists the hours of the provider's windows on date that are
// not booked yet.
func (a *Allocator) AvailableHours(providerID int64, date model.Date, windows []*model.AvailabilityWindow, appointments []*model.Appointment) []int {
	booked := indexAppointments(appointments)
	set := make(map[int]struct{})
	for _, w := range windows {
		if w.ProviderID != providerID || !w.Date.Equal(date) {
			continue
		}
		for _, h := range a.WindowHours(w) {
			if _, taken := booked[slotKey{providerID, date.String(), h}]; !taken {
				set[h] = struct{}{}
			}
		}
	}
	hours := make([]int, 0, len(set))
	for h := range set {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// indexAppointments keys appointments by slot. If the store ever holds two
// rows for one slot the first one wins.
func indexAppointments(appointments []*model.Appointment) map[slotKey]*model.Appointment {
	idx := make(map[slotKey]*model.Appointment, len(appointments))
	for _, apt := range appointments {
		key := slotKey{apt.ProviderID, apt.Date.String(), apt.Hour}
		if _, dup := idx[key]; !dup {
			idx[key] = apt
		}
	}
	return idx
}

func patientName(p *model.Patient) string {
	if p == nil {
		return LabelPatientNotFound
	}
	return p.Name
}

func statusColor(statuses map[model.AppointmentStatus]*model.StatusInfo, status model.AppointmentStatus) string {
	info, ok := statuses[status]
	if !ok || info == nil {
		return NeutralColor
	}
	if c := info.Color(); c != "" {
		return c
	}
	return NeutralColor
}
