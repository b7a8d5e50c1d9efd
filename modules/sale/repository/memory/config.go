package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
)

func (r *Repository) GetConfig(_ context.Context) (*entity.Config, error) {
	var config *entity.Config
	err := r.read(func(s *state) error {
		if s.config == nil {
			return errors.WithStack(entity.ErrConfigNotFound)
		}
		c := *s.config
		config = &c
		return nil
	})
	return config, err
}

func (r *Repository) GetConfigForUpdate(ctx context.Context) (*entity.Config, error) {
	return r.GetConfig(ctx)
}

func (r *Repository) PutConfig(_ context.Context, config entity.Config) error {
	return r.write(func(s *state) error {
		s.config = &config
		return nil
	})
}
