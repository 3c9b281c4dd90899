package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/smartodonto/clinic-api/internal/model"
)

// LoadDay reads every input of the day schedule inside one read-only
// transaction so the render sees a consistent snapshot.
func (r *scheduleRepository) LoadDay(ctx context.Context, date model.Date, templateID int64) (*model.DaySnapshot, error) {
	snap := &model.DaySnapshot{Date: date}

	err := r.WithTx(ctx, readOnly, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &snap.Providers,
			`SELECT `+providerColumns+` FROM providers ORDER BY name, id`); err != nil {
			return err
		}

		if err := tx.SelectContext(ctx, &snap.Windows,
			`SELECT `+windowColumns+` FROM availability_windows WHERE date = $1 ORDER BY provider_id, start_hour`,
			date); err != nil {
			return err
		}

		if err := tx.SelectContext(ctx, &snap.Appointments,
			`SELECT `+appointmentColumns+` FROM appointments WHERE date = $1 ORDER BY provider_id, hour, id`,
			date); err != nil {
			return err
		}

		patients, err := loadPatients(ctx, tx,
			`SELECT `+patientColumns+` FROM patients
			WHERE id IN (SELECT patient_id FROM appointments WHERE date = $1)`,
			date)
		if err != nil {
			return err
		}
		snap.Patients = patients

		if snap.Statuses, err = loadStatuses(ctx, tx); err != nil {
			return err
		}

		snap.Template, err = loadTemplate(ctx, tx, templateID)
		return err
	})
	if err != nil {
		return nil, mapError(err, "day schedule", "load")
	}
	return snap, nil
}

func (r *scheduleRepository) LoadRange(ctx context.Context, start, end model.Date) (*model.RangeSnapshot, error) {
	snap := &model.RangeSnapshot{Start: start, End: end}

	err := r.WithTx(ctx, readOnly, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &snap.Appointments,
			`SELECT `+appointmentColumns+` FROM appointments
			WHERE date >= $1 AND date <= $2
			ORDER BY date, hour, provider_id`,
			start, end); err != nil {
			return err
		}

		patients, err := loadPatients(ctx, tx,
			`SELECT `+patientColumns+` FROM patients
			WHERE id IN (SELECT patient_id FROM appointments WHERE date >= $1 AND date <= $2)`,
			start, end)
		if err != nil {
			return err
		}
		snap.Patients = patients

		snap.Statuses, err = loadStatuses(ctx, tx)
		return err
	})
	if err != nil {
		return nil, mapError(err, "schedule range", "load")
	}
	return snap, nil
}

func (r *scheduleRepository) LoadProviderDay(ctx context.Context, providerID int64, date model.Date) ([]*model.AvailabilityWindow, []*model.Appointment, error) {
	var (
		windows      []*model.AvailabilityWindow
		appointments []*model.Appointment
	)

	err := r.WithTx(ctx, readOnly, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &windows,
			`SELECT `+windowColumns+` FROM availability_windows
			WHERE provider_id = $1 AND date = $2 ORDER BY start_hour`,
			providerID, date); err != nil {
			return err
		}
		return tx.SelectContext(ctx, &appointments,
			`SELECT `+appointmentColumns+` FROM appointments
			WHERE provider_id = $1 AND date = $2 ORDER BY hour`,
			providerID, date)
	})
	if err != nil {
		return nil, nil, mapError(err, "provider day", "load")
	}
	return windows, appointments, nil
}

func loadPatients(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (map[int64]*model.Patient, error) {
	var patients []*model.Patient
	if err := tx.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.Patient, len(patients))
	for _, p := range patients {
		byID[p.ID] = p
	}
	return byID, nil
}

func loadStatuses(ctx context.Context, tx *sqlx.Tx) (map[model.AppointmentStatus]*model.StatusInfo, error) {
	var statuses []*model.StatusInfo
	if err := tx.SelectContext(ctx, &statuses,
		`SELECT id, description, rgb FROM appointment_statuses ORDER BY id`); err != nil {
		return nil, err
	}

	byID := make(map[model.AppointmentStatus]*model.StatusInfo, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}
	return byID, nil
}

// loadTemplate returns nil when the template row is missing.
func loadTemplate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.MessageTemplate, error) {
	var tpl model.MessageTemplate
	err := tx.GetContext(ctx, &tpl, `SELECT id, text FROM message_templates WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}
