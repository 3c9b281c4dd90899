package postgres

import (
	"context"

	"github.com/smartodonto/clinic-api/internal/model"
)

const patientColumns = `id, name, phone, insurance_id, active`

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, mapError(err, "patient", "get")
	}
	return &patient, nil
}
