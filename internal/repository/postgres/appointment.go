package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"github.com/smartodonto/clinic-api/internal/model"
	apperrors "github.com/smartodonto/clinic-api/pkg/errors"
)

const appointmentColumns = `id, patient_id, provider_id, procedure_id, insurance_id,
	date, hour, status, total_value, created_at, updated_at`

var appointmentSelect = []interface{}{
	"id", "patient_id", "provider_id", "procedure_id", "insurance_id",
	"date", "hour", "status", "total_value", "created_at", "updated_at",
}

func slotTaken(a *model.Appointment, err error) error {
	return apperrors.Conflict(
		fmt.Sprintf("provider %d is already booked on %s at %02d:00", a.ProviderID, a.Date.Display(), a.Hour),
		err,
	)
}

// Create checks the slot and inserts in one serializable transaction. The
// unique index on (provider_id, date, hour) backs the check when two
// transactions race.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	now := time.Now().UTC()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	err := r.WithTx(ctx, serializable, func(tx *sqlx.Tx) error {
		var taken bool
		err := tx.GetContext(ctx, &taken,
			`SELECT EXISTS (SELECT 1 FROM appointments WHERE provider_id = $1 AND date = $2 AND hour = $3)`,
			appointment.ProviderID, appointment.Date, appointment.Hour,
		)
		if err != nil {
			return err
		}
		if taken {
			return slotTaken(appointment, nil)
		}

		query := `
			INSERT INTO appointments (
				patient_id, provider_id, procedure_id, insurance_id,
				date, hour, status, total_value,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`
		return tx.QueryRowxContext(ctx, query,
			appointment.PatientID,
			appointment.ProviderID,
			appointment.ProcedureID,
			appointment.InsuranceID,
			appointment.Date,
			appointment.Hour,
			appointment.Status,
			appointment.TotalValue,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		).Scan(&appointment.ID)
	})
	if isUniqueViolation(err) {
		return slotTaken(appointment, err)
	}
	return mapError(err, "appointment", "create")
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, mapError(err, "appointment", "get")
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, model.AppointmentStatus, error) {
	var (
		previous    model.AppointmentStatus
		appointment model.Appointment
	)

	err := r.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &previous,
			`SELECT status FROM appointments WHERE id = $1 FOR UPDATE`, id,
		); err != nil {
			return err
		}

		query := `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3 RETURNING ` + appointmentColumns
		return tx.GetContext(ctx, &appointment, query, status, time.Now().UTC(), id)
	})
	if err != nil {
		return nil, 0, mapError(err, "appointment", "update")
	}
	return &appointment, previous, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "appointment", "delete")
	}
	return checkAffected(result, "appointment")
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	ds := r.From("appointments").Select(appointmentSelect...)

	if filters != nil {
		var where []exp.Expression
		if filters.ProviderID > 0 {
			where = append(where, goqu.C("provider_id").Eq(filters.ProviderID))
		}
		if filters.PatientID > 0 {
			where = append(where, goqu.C("patient_id").Eq(filters.PatientID))
		}
		if filters.Status.Valid() {
			where = append(where, goqu.C("status").Eq(int64(filters.Status)))
		}
		where = append(where, dateBounds(filters.Dates)...)
		ds = ds.Where(where...)
	}

	query, args, err := ds.Order(goqu.C("date").Asc(), goqu.C("hour").Asc(), goqu.C("provider_id").Asc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build appointment query: %w", err)
	}

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, mapError(err, "appointments", "list")
	}
	return appointments, nil
}

// dateBounds filters the text date column. YYYY-MM-DD strings sort
// chronologically.
func dateBounds(dates model.DateRange) []exp.Expression {
	var where []exp.Expression
	if !dates.From.IsZero() {
		where = append(where, goqu.C("date").Gte(dates.From.String()))
	}
	if !dates.To.IsZero() {
		where = append(where, goqu.C("date").Lte(dates.To.String()))
	}
	return where
}
