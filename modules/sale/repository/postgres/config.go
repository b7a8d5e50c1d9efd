package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/repository/postgres/gen"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetConfig(ctx context.Context) (*entity.Config, error) {
	model, err := r.queries.GetConfig(ctx)
	return mapConfigResult(model, err)
}

func (r *Repository) GetConfigForUpdate(ctx context.Context) (*entity.Config, error) {
	model, err := r.queries.GetConfigForUpdate(ctx)
	return mapConfigResult(model, err)
}

func mapConfigResult(model gen.SaleConfig, err error) (*entity.Config, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.WithStack(entity.ErrConfigNotFound)
		}
		return nil, errors.Wrap(err, "error during query")
	}
	config, err := mapConfigModelToType(model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to map config")
	}
	return &config, nil
}

func (r *Repository) PutConfig(ctx context.Context, config entity.Config) error {
	if err := r.queries.PutConfig(ctx, mapConfigTypeToParams(config)); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}
