package repository

import (
	"context"

	"github.com/smartodonto/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	ProviderRepository interface {
		Get(ctx context.Context, id int64) (*model.Provider, error)
		List(ctx context.Context) ([]*model.Provider, error)
		// ListWithWindows returns providers that have at least one availability window.
		ListWithWindows(ctx context.Context) ([]*model.Provider, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id int64) (*model.Patient, error)
	}

	ProcedureRepository interface {
		Get(ctx context.Context, id int64) (*model.Procedure, error)
	}

	AppointmentRepository interface {
		// Create inserts the appointment unless its (provider, date, hour)
		// slot is taken, in which case it returns a Conflict error.
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		// UpdateStatus sets the status and returns the updated row together
		// with the status it replaced, both read under the same row lock.
		UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, model.AppointmentStatus, error)
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	AvailabilityRepository interface {
		Create(ctx context.Context, window *model.AvailabilityWindow) error
		Get(ctx context.Context, id int64) (*model.AvailabilityWindow, error)
		Update(ctx context.Context, window *model.AvailabilityWindow) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters *model.AvailabilityFilters) ([]*model.AvailabilityWindow, error)
	}

	// ScheduleRepository loads allocator inputs, each in one read-only
	// transaction.
	ScheduleRepository interface {
		LoadDay(ctx context.Context, date model.Date, templateID int64) (*model.DaySnapshot, error)
		LoadRange(ctx context.Context, start, end model.Date) (*model.RangeSnapshot, error)
		LoadProviderDay(ctx context.Context, providerID int64, date model.Date) ([]*model.AvailabilityWindow, []*model.Appointment, error)
	}
)
