package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/smartodonto/clinic-api/internal/repository"
)

type providerRepository struct {
	BaseRepository
}

type patientRepository struct {
	BaseRepository
}

type procedureRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type availabilityRepository struct {
	BaseRepository
}

type scheduleRepository struct {
	BaseRepository
}

func NewProviderRepository(db *sqlx.DB) repository.ProviderRepository {
	return &providerRepository{NewBaseRepository(db)}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func NewProcedureRepository(db *sqlx.DB) repository.ProcedureRepository {
	return &procedureRepository{NewBaseRepository(db)}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewAvailabilityRepository(db *sqlx.DB) repository.AvailabilityRepository {
	return &availabilityRepository{NewBaseRepository(db)}
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{NewBaseRepository(db)}
}
