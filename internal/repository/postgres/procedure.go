package postgres

import (
	"context"

	"github.com/smartodonto/clinic-api/internal/model"
)

func (r *procedureRepository) Get(ctx context.Context, id int64) (*model.Procedure, error) {
	query := `
		SELECT id, name, price, accepts_insurance, active
		FROM procedures
		WHERE id = $1
	`

	var procedure model.Procedure
	if err := r.db.GetContext(ctx, &procedure, query, id); err != nil {
		return nil, mapError(err, "procedure", "get")
	}
	return &procedure, nil
}
