package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "default", r.Header.Get("X-Default"))
		assert.Equal(t, "request", r.Header.Get("X-Override"))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	client, err := New(server.URL, Config{
		Headers: map[string]string{"X-Default": "default", "X-Override": "default"},
		Timeout: time.Second,
	})
	require.NoError(t, err)

	resp, err := client.PostJSON(context.Background(), []byte(`{"ok":true}`), map[string]string{"X-Override": "request"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestPostJSONCanceled(t *testing.T) {
	client, err := New("http://127.0.0.1:1", Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.PostJSON(ctx, []byte(`{}`), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsScheme(t *testing.T) {
	_, err := New("ftp://example.com", Config{})
	assert.Error(t, err)
}
