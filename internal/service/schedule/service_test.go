package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartodonto/clinic-api/internal/model"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
	"github.com/smartodonto/clinic-api/pkg/metrics"
)

type fakeScheduleRepo struct {
	day        *model.DaySnapshot
	rangeSnap  *model.RangeSnapshot
	windows    []*model.AvailabilityWindow
	apts       []*model.Appointment
	err        error
	templateID int64
	rangeLoads int
}

func (r *fakeScheduleRepo) LoadDay(_ context.Context, date model.Date, templateID int64) (*model.DaySnapshot, error) {
	r.templateID = templateID
	if r.err != nil {
		return nil, r.err
	}
	r.day.Date = date
	return r.day, nil
}

func (r *fakeScheduleRepo) LoadRange(_ context.Context, start, end model.Date) (*model.RangeSnapshot, error) {
	r.rangeLoads++
	if r.err != nil {
		return nil, r.err
	}
	return &model.RangeSnapshot{Start: start, End: end, Appointments: r.apts}, nil
}

func (r *fakeScheduleRepo) LoadProviderDay(_ context.Context, _ int64, _ model.Date) ([]*model.AvailabilityWindow, []*model.Appointment, error) {
	return r.windows, r.apts, r.err
}

type fakeProviders map[int64]*model.Provider

func (f fakeProviders) Get(_ context.Context, id int64) (*model.Provider, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, apperrors.NotFound("provider", nil)
}

func (f fakeProviders) List(context.Context) ([]*model.Provider, error) { return nil, nil }

func (f fakeProviders) ListWithWindows(context.Context) ([]*model.Provider, error) {
	return []*model.Provider{f[1]}, nil
}

func newTestService(repo *fakeScheduleRepo) (*Service, *metrics.Metrics) {
	m := metrics.New("test", prometheus.NewRegistry())
	providers := fakeProviders{1: {ID: 1, Name: "Dra. Fabiana"}}
	return NewService(repo, providers, NewAllocator(DefaultConfig()), 3, m), m
}

func TestServiceDaySchedule(t *testing.T) {
	repo := &fakeScheduleRepo{day: snapshot([]*model.AvailabilityWindow{window(1, day, 9, 11)}, nil)}
	svc, m := newTestService(repo)

	slots, err := svc.DaySchedule(context.Background(), day)
	require.NoError(t, err)

	assert.Len(t, slots, 3)
	assert.Equal(t, int64(3), repo.templateID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRenders.WithLabelValues("day")))
}

func TestServiceDaySchedule_StoreError(t *testing.T) {
	repo := &fakeScheduleRepo{err: errors.New("connection refused")}
	svc, _ := newTestService(repo)

	_, err := svc.DaySchedule(context.Background(), day)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load day schedule")
}

func TestServiceRangeGrid(t *testing.T) {
	repo := &fakeScheduleRepo{apts: []*model.Appointment{
		appointment(1, 1, 10, day, 9, model.AppointmentStatusScheduled),
	}}
	svc, _ := newTestService(repo)

	grid, err := svc.RangeGrid(context.Background(), day, day.AddDays(6))
	require.NoError(t, err)

	assert.Len(t, grid.Dates, 7)
	assert.Len(t, grid.Cells[0][0].Occupants, 1)
}

func TestServiceRangeGrid_InvalidRangeSkipsStore(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc, _ := newTestService(repo)

	_, err := svc.RangeGrid(context.Background(), day, day.AddDays(-1))

	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRange))
	assert.Zero(t, repo.rangeLoads)
}

func TestServiceRangeGrid_SpanCap(t *testing.T) {
	repo := &fakeScheduleRepo{}
	cfg := DefaultConfig()
	cfg.MaxRangeDays = 31
	svc := NewService(repo, fakeProviders{}, NewAllocator(cfg), 1, nil)
	ctx := context.Background()

	_, err := svc.RangeGrid(ctx, day, day.AddDays(30))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.rangeLoads)

	_, err = svc.RangeGrid(ctx, day, day.AddDays(31))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRange))
	assert.Contains(t, err.Error(), "31 days")

	_, err = svc.RangeGrid(ctx, model.MustParseDate("1000-01-01"), model.MustParseDate("9999-12-31"))
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidRange))
	assert.Equal(t, 1, repo.rangeLoads, "over-wide ranges never reach the store")
}

func TestServiceAvailableHours(t *testing.T) {
	repo := &fakeScheduleRepo{
		windows: []*model.AvailabilityWindow{window(1, day, 9, 12)},
		apts:    []*model.Appointment{appointment(1, 1, 10, day, 9, model.AppointmentStatusScheduled)},
	}
	svc, _ := newTestService(repo)

	hours, err := svc.AvailableHours(context.Background(), 1, day)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, hours)

	_, err = svc.AvailableHours(context.Background(), 99, day)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestServiceBookableProviders(t *testing.T) {
	svc, _ := newTestService(&fakeScheduleRepo{})

	providers, err := svc.BookableProviders(context.Background())
	require.NoError(t, err)

	require.Len(t, providers, 1)
	assert.Equal(t, "Dra. Fabiana", providers[0].Name)
}
