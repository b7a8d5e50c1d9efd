package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/modules/sale/repository/postgres/gen"
	"github.com/samber/lo"
)

func (r *Repository) AddEvent(ctx context.Context, arg datagateway.AddEventParams) (int64, error) {
	payload := arg.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	id, err := r.queries.AddEvent(ctx, gen.AddEventParams{
		SaleID:    int64(arg.SaleID),
		Action:    string(arg.Action),
		Actor:     arg.Actor,
		Payload:   payload,
		CreatedAt: timestamptz(arg.CreatedAt),
	})
	if err != nil {
		return 0, errors.Wrap(err, "error during exec")
	}
	return id, nil
}

func (r *Repository) GetEvents(ctx context.Context, arg datagateway.GetEventsParams) ([]entity.Event, error) {
	models, err := r.queries.GetEvents(ctx, gen.GetEventsParams{
		SaleID: int64(arg.SaleID),
		Limit:  arg.Limit,
		Offset: arg.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	return lo.Map(models, func(model gen.SaleEvent, _ int) entity.Event {
		return mapEventModelToType(model)
	}), nil
}
