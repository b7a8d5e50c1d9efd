// Package httpclient is a small fasthttp based client for posting JSON documents to a fixed
// endpoint.
package httpclient

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/valyala/fasthttp"
)

type Config struct {
	// Debug logs every round trip at info level.
	Debug bool

	// Headers are sent with every request. Per-request headers override them.
	Headers map[string]string

	// Timeout bounds every request. A context deadline that comes first wins.
	Timeout time.Duration
}

type Client struct {
	endpoint string
	config   Config
}

func New(endpoint string, config Config) (*Client, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse endpoint")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.Errorf("unsupported endpoint scheme %q", parsed.Scheme)
	}
	return &Client{
		endpoint: parsed.String(),
		config:   config,
	}, nil
}

// Endpoint returns the URL every request is sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Response is a detached copy of a server reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// PostJSON sends body as application/json to the endpoint.
func (c *Client) PostJSON(ctx context.Context, body []byte, header map[string]string) (*Response, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseResponse(resp)
		fasthttp.ReleaseRequest(req)
	}()

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	req.SetBody(body)

	start := time.Now()
	if err := c.do(ctx, req, resp); err != nil {
		return nil, errors.Wrapf(err, "post %s", c.endpoint)
	}
	if c.config.Debug {
		logger.InfoContext(ctx, "http round trip",
			slog.String("package", "httpclient"),
			slog.String("url", c.endpoint),
			slog.Int("status_code", resp.StatusCode()),
			slog.Int("req_size", len(body)),
			slog.Int("resp_size", len(resp.Body())),
			slog.Duration("latency", time.Since(start)),
		)
	}

	respBody, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrapf(err, "can't read response body from %s", c.endpoint)
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       append([]byte(nil), respBody...),
	}, nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	deadline, ok := ctx.Deadline()
	if c.config.Timeout > 0 {
		if at := time.Now().Add(c.config.Timeout); !ok || at.Before(deadline) {
			deadline, ok = at, true
		}
	}
	if !ok {
		return errors.WithStack(fasthttp.Do(req, resp))
	}
	return errors.WithStack(fasthttp.DoDeadline(req, resp, deadline))
}
