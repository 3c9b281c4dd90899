package postgres

import (
	"context"

	"github.com/smartodonto/clinic-api/internal/model"
)

const providerColumns = `id, name, phone`

func (r *providerRepository) Get(ctx context.Context, id int64) (*model.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`

	var provider model.Provider
	if err := r.db.GetContext(ctx, &provider, query, id); err != nil {
		return nil, mapError(err, "provider", "get")
	}
	return &provider, nil
}

func (r *providerRepository) List(ctx context.Context) ([]*model.Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers ORDER BY name, id`

	var providers []*model.Provider
	if err := r.db.SelectContext(ctx, &providers, query); err != nil {
		return nil, mapError(err, "providers", "list")
	}
	return providers, nil
}

func (r *providerRepository) ListWithWindows(ctx context.Context) ([]*model.Provider, error) {
	query := `
		SELECT p.id, p.name, p.phone
		FROM providers p
		WHERE EXISTS (SELECT 1 FROM availability_windows w WHERE w.provider_id = p.id)
		ORDER BY p.name, p.id
	`

	var providers []*model.Provider
	if err := r.db.SelectContext(ctx, &providers, query); err != nil {
		return nil, mapError(err, "providers", "list")
	}
	return providers, nil
}
