package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smartodonto/clinic-api/internal/model"
	"github.com/smartodonto/clinic-api/internal/repository"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
	"github.com/smartodonto/clinic-api/pkg/messaging"
	"github.com/smartodonto/clinic-api/pkg/metrics"
)

type Config struct {
	// DefaultInsuranceID is the plan used when a booking names none.
	DefaultInsuranceID int64
	// BookingRetries bounds attempts when the store reports a
	// serialization failure.
	BookingRetries int
}

type Service struct {
	repo       repository.AppointmentRepository
	patients   repository.PatientRepository
	providers  repository.ProviderRepository
	procedures repository.ProcedureRepository
	publisher  messaging.Publisher
	metrics    *metrics.Metrics
	cfg        Config
	now        func() time.Time
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	providers repository.ProviderRepository,
	procedures repository.ProcedureRepository,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	cfg Config,
) *Service {
	if cfg.BookingRetries < 1 {
		cfg.BookingRetries = 1
	}
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &Service{
		repo:       repo,
		patients:   patients,
		providers:  providers,
		procedures: procedures,
		publisher:  publisher,
		metrics:    m,
		cfg:        cfg,
		now:        time.Now,
	}
}

// CreateAppointment books apt in its (provider, date, hour) slot. It returns
// a Conflict error when the slot is already taken.
func (s *Service) CreateAppointment(ctx context.Context, apt *model.Appointment) error {
	if apt.Date.IsZero() {
		return apperrors.Validation("date is required", nil)
	}
	if apt.Hour < 0 || apt.Hour > 23 {
		return apperrors.Validation(fmt.Sprintf("hour must be between 0 and 23, got %d", apt.Hour), nil)
	}

	if _, err := s.patients.Get(ctx, apt.PatientID); err != nil {
		return missingReference("patient", apt.PatientID, err)
	}
	if _, err := s.providers.Get(ctx, apt.ProviderID); err != nil {
		return missingReference("provider", apt.ProviderID, err)
	}
	procedure, err := s.procedures.Get(ctx, apt.ProcedureID)
	if err != nil {
		return missingReference("procedure", apt.ProcedureID, err)
	}

	if apt.InsuranceID == 0 {
		apt.InsuranceID = s.cfg.DefaultInsuranceID
	}
	if apt.TotalValue == 0 {
		apt.TotalValue = procedure.Price
	}
	apt.Status = model.AppointmentStatusScheduled

	logger := log.Ctx(ctx).With().
		Int64("provider_id", apt.ProviderID).
		Str("date", apt.Date.String()).
		Int("hour", apt.Hour).
		Logger()

	for attempt := 1; ; attempt++ {
		err = s.repo.Create(ctx, apt)
		if err == nil || !apperrors.Is(err, apperrors.ErrTransient) || attempt >= s.cfg.BookingRetries {
			break
		}
		s.metrics.IncBookingRetries()
		logger.Warn().Err(err).Int("attempt", attempt).Msg("retrying booking after transient store error")
	}
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			s.metrics.IncBookingConflicts()
			logger.Info().Msg("slot already booked")
		}
		return err
	}

	s.metrics.IncAppointmentsCreated()
	logger.Info().Int64("appointment_id", apt.ID).Msg("appointment booked")

	s.publish(ctx, model.EventAppointmentScheduled, apt)
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters != nil && !filters.Dates.From.IsZero() && !filters.Dates.To.IsZero() && filters.Dates.To.Before(filters.Dates.From) {
		return nil, apperrors.InvalidRange("start date must not be after end date")
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) ChangeStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid status %d", int(status)), nil)
	}

	apt, previous, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusChange(status.String())
	log.Ctx(ctx).Info().
		Int64("appointment_id", id).
		Stringer("from", previous).
		Stringer("to", status).
		Msg("appointment status changed")

	s.publish(ctx, model.EventAppointmentStatusChanged, apt)
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Ctx(ctx).Info().Int64("appointment_id", id).Msg("appointment deleted")
	s.publish(ctx, model.EventAppointmentDeleted, apt)
	return nil
}

// publish is best effort: the booking has already been committed.
func (s *Service) publish(ctx context.Context, eventType string, apt *model.Appointment) {
	event := model.NewAppointmentEvent(eventType, apt, s.now().UTC())

	err := s.publisher.Publish(ctx, eventType, event)
	s.metrics.IncEventsPublished(eventType, err == nil)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("event_type", eventType).
			Int64("appointment_id", apt.ID).
			Msg("failed to publish appointment event")
	}
}

func missingReference(resource string, id int64, err error) error {
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return apperrors.Validation(fmt.Sprintf("%s %d does not exist", resource, id), err)
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}
