package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/smartodonto/clinic-api/internal/model"
)

const windowColumns = `id, provider_id, date, start_hour, end_hour, created_at, updated_at`

var windowSelect = []interface{}{"id", "provider_id", "date", "start_hour", "end_hour", "created_at", "updated_at"}

func (r *availabilityRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	query := `
		INSERT INTO availability_windows (
			provider_id, date, start_hour, end_hour, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	now := time.Now().UTC()
	window.CreatedAt = now
	window.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		window.ProviderID,
		window.Date,
		window.StartHour,
		window.EndHour,
		window.CreatedAt,
		window.UpdatedAt,
	).Scan(&window.ID)
	return mapError(err, "availability window", "create")
}

func (r *availabilityRepository) Get(ctx context.Context, id int64) (*model.AvailabilityWindow, error) {
	query := `SELECT ` + windowColumns + ` FROM availability_windows WHERE id = $1`

	var window model.AvailabilityWindow
	if err := r.db.GetContext(ctx, &window, query, id); err != nil {
		return nil, mapError(err, "availability window", "get")
	}
	return &window, nil
}

func (r *availabilityRepository) Update(ctx context.Context, window *model.AvailabilityWindow) error {
	query := `
		UPDATE availability_windows
		SET provider_id = $1, date = $2, start_hour = $3, end_hour = $4, updated_at = $5
		WHERE id = $6
	`
	window.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		window.ProviderID,
		window.Date,
		window.StartHour,
		window.EndHour,
		window.UpdatedAt,
		window.ID,
	)
	if err != nil {
		return mapError(err, "availability window", "update")
	}
	return checkAffected(result, "availability window")
}

func (r *availabilityRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM availability_windows WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "availability window", "delete")
	}
	return checkAffected(result, "availability window")
}

func (r *availabilityRepository) List(ctx context.Context, filters *model.AvailabilityFilters) ([]*model.AvailabilityWindow, error) {
	ds := r.From("availability_windows").Select(windowSelect...)

	if filters != nil {
		var where []exp.Expression
		if filters.ProviderID > 0 {
			where = append(where, goqu.C("provider_id").Eq(filters.ProviderID))
		}
		where = append(where, dateBounds(filters.Dates)...)
		ds = ds.Where(where...)
	}

	query, args, err := ds.Order(goqu.C("date").Asc(), goqu.C("provider_id").Asc(), goqu.C("start_hour").Asc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build availability query: %w", err)
	}

	windows := []*model.AvailabilityWindow{}
	if err := r.db.SelectContext(ctx, &windows, query, args...); err != nil {
		return nil, mapError(err, "availability windows", "list")
	}
	return windows, nil
}
