// Package webhook delivers committed sale events to an external HTTP endpoint.
//
// Delivery is best effort and asynchronous: events are queued by Notify and posted by a
// background goroutine, a full queue drops the batch with a warning, and failed posts are
// logged without retry.
package webhook

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/pkg/httpclient"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"golang.org/x/crypto/blake2b"
)

const (
	// SignatureHeader carries the hex keyed BLAKE2b-256 MAC of the body when a secret is set.
	SignatureHeader = "X-Sale-Signature"

	defaultTimeout   = 5 * time.Second
	defaultQueueSize = 256
)

type Config struct {
	Enabled   bool          `mapstructure:"enabled"`
	URL       string        `mapstructure:"url"`
	Secret    string        `mapstructure:"secret"`
	Timeout   time.Duration `mapstructure:"timeout"`
	QueueSize int           `mapstructure:"queue_size"`
}

// Event is the delivered shape of one sale event.
type Event struct {
	ID        int64           `json:"id"`
	SaleID    uint64          `json:"saleId"`
	Action    string          `json:"action"`
	Actor     string          `json:"actor"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

type payload struct {
	Events []Event `json:"events"`
}

type Client struct {
	httpClient *httpclient.Client
	secret     []byte
	queue      chan []Event

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "webhook url is required")
	}
	if len(config.Secret) > blake2b.Size {
		return nil, errors.Wrapf(errs.InvalidArgument, "webhook secret must be at most %d bytes", blake2b.Size)
	}
	httpClient, err := httpclient.New(config.URL, httpclient.Config{
		Timeout: utils.Default(config.Timeout, defaultTimeout),
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	c := &Client{
		httpClient: httpClient,
		secret:     []byte(config.Secret),
		queue:      make(chan []Event, utils.Default(config.QueueSize, defaultQueueSize)),
		done:       make(chan struct{}),
	}
	go c.run()
	return c, nil
}

// Enqueue schedules the events for delivery without blocking.
func (c *Client) Enqueue(ctx context.Context, events []Event) {
	if len(events) == 0 {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		logger.WarnContext(ctx, "webhook is closed, dropping events", slog.Int("events", len(events)))
		return
	}
	select {
	case c.queue <- events:
	default:
		logger.WarnContext(ctx, "webhook queue is full, dropping events",
			slogx.String("package", "webhook"),
			slog.Int("events", len(events)),
		)
	}
}

// Close stops accepting events and waits for queued events to be delivered.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "webhook close context canceled")
	}
}

func (c *Client) run() {
	defer close(c.done)
	ctx := logger.WithContext(context.Background(), slog.String("package", "webhook"))
	for events := range c.queue {
		if err := c.Send(ctx, events); err != nil {
			logger.WarnContext(ctx, "failed to deliver webhook", slogx.Error(err), slog.Int("events", len(events)))
		}
	}
}

// Send posts the events synchronously.
func (c *Client) Send(ctx context.Context, events []Event) error {
	body, err := json.Marshal(payload{Events: events})
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	header := map[string]string{}
	if len(c.secret) > 0 {
		header[SignatureHeader] = Sign(c.secret, body)
	}
	resp, err := c.httpClient.PostJSON(ctx, body, header)
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if !resp.OK() {
		return errors.Errorf("webhook responded with status %d: %s", resp.StatusCode, resp.Body)
	}
	logger.DebugContext(ctx, "webhook delivered", slog.Int("events", len(events)))
	return nil
}

// Sign returns the hex keyed BLAKE2b-256 MAC of body.
func Sign(secret, body []byte) string {
	h, err := blake2b.New256(secret)
	if err != nil {
		// New256 only fails for keys longer than blake2b.Size, rejected by New
		panic(err)
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
