package sale

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gaze-network/sale-engine/modules/sale/internal/entity"
	"github.com/gaze-network/sale-engine/pkg/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queueRecorder struct {
	batches [][]webhook.Event
}

func (q *queueRecorder) Enqueue(_ context.Context, events []webhook.Event) {
	q.batches = append(q.batches, events)
}

func TestWebhookNotifier(t *testing.T) {
	queue := &queueRecorder{}
	createdAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	webhookNotifier{queue: queue}.Notify(context.Background(), []entity.Event{
		{ID: 7, SaleID: 3, Action: entity.ActionBuy, Actor: "alice", Payload: json.RawMessage(`{"units":2}`), CreatedAt: createdAt},
		{ID: 8, SaleID: 3, Action: entity.ActionFinalize, Actor: "admin", CreatedAt: createdAt},
	})

	require.Len(t, queue.batches, 1)
	assert.Equal(t, []webhook.Event{
		{ID: 7, SaleID: 3, Action: "buy", Actor: "alice", Payload: json.RawMessage(`{"units":2}`), CreatedAt: createdAt},
		{ID: 8, SaleID: 3, Action: "finalize", Actor: "admin", CreatedAt: createdAt},
	}, queue.batches[0])
}
