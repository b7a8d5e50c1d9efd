package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type receiver struct {
	mu         sync.Mutex
	batches    [][]Event
	signatures []string
	status     int
}

func (r *receiver) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	var p payload
	_ = json.Unmarshal(body, &p)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, p.Events)
	r.signatures = append(r.signatures, req.Header.Get(SignatureHeader))
	if r.status != 0 {
		w.WriteHeader(r.status)
	}
}

func (r *receiver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func testEvent(id int64) Event {
	return Event{
		ID:        id,
		SaleID:    1,
		Action:    "buy",
		Actor:     "alice",
		Payload:   json.RawMessage(`{"quantity":1}`),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSendSignsBody(t *testing.T) {
	r := &receiver{}
	server := httptest.NewServer(r)
	defer server.Close()

	client, err := New(Config{URL: server.URL, Secret: "s3cret"})
	require.NoError(t, err)
	defer client.Close(context.Background())

	events := []Event{testEvent(1), testEvent(2)}
	require.NoError(t, client.Send(context.Background(), events))

	require.Equal(t, 1, r.count())
	assert.Equal(t, events, r.batches[0])

	body, err := json.Marshal(payload{Events: events})
	require.NoError(t, err)
	assert.Equal(t, Sign([]byte("s3cret"), body), r.signatures[0])
}

func TestSendReportsErrorStatus(t *testing.T) {
	server := httptest.NewServer(&receiver{status: http.StatusInternalServerError})
	defer server.Close()

	client, err := New(Config{URL: server.URL})
	require.NoError(t, err)
	defer client.Close(context.Background())

	assert.Error(t, client.Send(context.Background(), []Event{testEvent(1)}))
}

func TestEnqueueDeliversBeforeClose(t *testing.T) {
	r := &receiver{}
	server := httptest.NewServer(r)
	defer server.Close()

	client, err := New(Config{URL: server.URL})
	require.NoError(t, err)

	client.Enqueue(context.Background(), []Event{testEvent(1)})
	client.Enqueue(context.Background(), nil)
	client.Enqueue(context.Background(), []Event{testEvent(2)})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Close(ctx))
	assert.Equal(t, 2, r.count())

	// events after close are dropped
	client.Enqueue(context.Background(), []Event{testEvent(3)})
	assert.Equal(t, 2, r.count())
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{URL: "http://localhost", Secret: string(make([]byte, 65))})
	assert.Error(t, err)
}
