package sale

import (
	"context"

	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/webhook"
	"github.com/samber/lo"
)

type eventQueue interface {
	Enqueue(ctx context.Context, events []webhook.Event)
}

// webhookNotifier forwards committed sale events to the webhook queue.
type webhookNotifier struct {
	queue eventQueue
}

func (n webhookNotifier) Notify(ctx context.Context, events []entity.Event) {
	n.queue.Enqueue(ctx, lo.Map(events, func(e entity.Event, _ int) webhook.Event {
		return webhook.Event{
			ID:        e.ID,
			SaleID:    e.SaleID,
			Action:    string(e.Action),
			Actor:     e.Actor,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		}
	}))
}
