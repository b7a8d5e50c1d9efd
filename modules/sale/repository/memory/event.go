package memory

import (
	"context"
	"slices"

	"github.com/gaze-network/sale-engine/modules/sale/datagateway"
	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
)

func (r *Repository) AddEvent(_ context.Context, arg datagateway.AddEventParams) (int64, error) {
	var id int64
	err := r.write(func(s *state) error {
		id = int64(len(s.events)) + 1
		s.events = append(s.events, entity.Event{
			ID:        id,
			SaleID:    arg.SaleID,
			Action:    arg.Action,
			Actor:     arg.Actor,
			Payload:   slices.Clone(arg.Payload),
			CreatedAt: arg.CreatedAt,
		})
		return nil
	})
	return id, err
}

func (r *Repository) GetEvents(_ context.Context, arg datagateway.GetEventsParams) ([]entity.Event, error) {
	var result []entity.Event
	err := r.read(func(s *state) error {
		for _, event := range s.events {
			if event.SaleID == arg.SaleID {
				result = append(result, event)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page(result, arg.Limit, arg.Offset), nil
}
