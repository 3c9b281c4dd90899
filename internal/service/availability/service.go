package availability

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/smartodonto/clinic-api/internal/model"
	"github.com/smartodonto/clinic-api/internal/repository"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
)

type Service struct {
	repo      repository.AvailabilityRepository
	providers repository.ProviderRepository
}

func NewService(repo repository.AvailabilityRepository, providers repository.ProviderRepository) *Service {
	return &Service{
		repo:      repo,
		providers: providers,
	}
}

func (s *Service) CreateWindow(ctx context.Context, window *model.AvailabilityWindow) error {
	if err := s.validate(ctx, window); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, window); err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Int64("window_id", window.ID).
		Int64("provider_id", window.ProviderID).
		Str("date", window.Date.String()).
		Msg("availability window created")
	return nil
}

func (s *Service) GetWindow(ctx context.Context, id int64) (*model.AvailabilityWindow, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateWindow(ctx context.Context, window *model.AvailabilityWindow) error {
	if _, err := s.repo.Get(ctx, window.ID); err != nil {
		return err
	}
	if err := s.validate(ctx, window); err != nil {
		return err
	}
	return s.repo.Update(ctx, window)
}

// DeleteWindow removes the window only. Appointments already booked inside
// it stay in place and keep showing in the range grid.
func (s *Service) DeleteWindow(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListWindows(ctx context.Context, filters *model.AvailabilityFilters) ([]*model.AvailabilityWindow, error) {
	if filters != nil && !filters.Dates.From.IsZero() && !filters.Dates.To.IsZero() && filters.Dates.To.Before(filters.Dates.From) {
		return nil, apperrors.InvalidRange("start date must not be after end date")
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) validate(ctx context.Context, w *model.AvailabilityWindow) error {
	if w.Date.IsZero() {
		return apperrors.Validation("date is required", nil)
	}
	if w.StartHour < 0 || w.EndHour > 23 || w.StartHour > w.EndHour {
		return apperrors.Validation(
			fmt.Sprintf("window hours must satisfy 0 <= start <= end <= 23, got %d-%d", w.StartHour, w.EndHour),
			nil,
		)
	}
	if _, err := s.providers.Get(ctx, w.ProviderID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validation(fmt.Sprintf("provider %d does not exist", w.ProviderID), err)
		}
		return fmt.Errorf("failed to get provider: %w", err)
	}
	return nil
}
