package schedule

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/smartodonto/clinic-api/internal/model"
	"github.com/smartodonto/clinic-api/internal/repository"
	"github.com/smartodonto/clinic-api/pkg/metrics"
)

type Service struct {
	repo       repository.ScheduleRepository
	providers  repository.ProviderRepository
	allocator  *Allocator
	templateID int64
	metrics    *metrics.Metrics
}

func NewService(repo repository.ScheduleRepository, providers repository.ProviderRepository, allocator *Allocator, templateID int64, m *metrics.Metrics) *Service {
	return &Service{
		repo:       repo,
		providers:  providers,
		allocator:  allocator,
		templateID: templateID,
		metrics:    m,
	}
}

func (s *Service) DaySchedule(ctx context.Context, date model.Date) ([]model.SlotView, error) {
	snap, err := s.repo.LoadDay(ctx, date, s.templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load day schedule: %w", err)
	}
	if snap.Template == nil {
		log.Ctx(ctx).Debug().Int64("template_id", s.templateID).Msg("confirmation template not configured, using default message")
	}

	slots := s.allocator.DaySchedule(snap)
	s.metrics.ObserveScheduleRender("day", len(slots))
	return slots, nil
}

func (s *Service) RangeGrid(ctx context.Context, start, end model.Date) (*model.RangeGrid, error) {
	if err := s.allocator.ValidateRange(start, end); err != nil {
		return nil, err
	}

	snap, err := s.repo.LoadRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule range: %w", err)
	}

	grid, err := s.allocator.RangeGrid(snap)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveScheduleRender("range", len(grid.Dates)*len(grid.Hours))
	return grid, nil
}

func (s *Service) AvailableHours(ctx context.Context, providerID int64, date model.Date) ([]int, error) {
	if _, err := s.providers.Get(ctx, providerID); err != nil {
		return nil, err
	}

	windows, appointments, err := s.repo.LoadProviderDay(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider day: %w", err)
	}
	return s.allocator.AvailableHours(providerID, date, windows, appointments), nil
}

// BookableProviders lists providers that have configured availability.
func (s *Service) BookableProviders(ctx context.Context) ([]*model.Provider, error) {
	providers, err := s.providers.ListWithWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}
