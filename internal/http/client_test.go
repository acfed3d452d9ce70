package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krakensweep/pkg/core"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"valid", &Config{BaseURL: "https://api.kraken.com", Timeout: time.Second}, false},
		{"nil config", nil, true},
		{"missing base url", &Config{Timeout: time.Second}, true},
		{"bad base url", &Config{BaseURL: "not a url", Timeout: time.Second}, true},
		{"zero timeout", &Config{BaseURL: "https://api.kraken.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.config, zerolog.Nop())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, c.Close())
		})
	}
}

func TestClient_PostSendsBodyVerbatim(t *testing.T) {
	const body = "nonce=1700000000000&ordertype=market&type=sell&volume=3.2&pair=USDCUSD"

	var gotBody, gotContentType, gotKey, gotPath string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotKey = r.Header.Get("API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":[],"result":{}}`))
	}))
	defer srv.Close()

	c, err := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Post(context.Background(), "/0/private/AddOrder", body,
		WithHeader("Content-Type", "application/x-www-form-urlencoded"),
		WithHeaders(map[string]string{"API-Key": "key"}),
	)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, body, gotBody)
	assert.Equal(t, "/0/private/AddOrder", gotPath)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "key", gotKey)
	assert.Equal(t, `{"error":[],"result":{}}`, string(resp.Bytes()))
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodGet, r.Method)
		assert.Equal(t, "yes", r.Header.Get("X-Default"))
		w.WriteHeader(nethttp.StatusTeapot)
	}))
	defer srv.Close()

	c, err := NewClient(&Config{
		BaseURL: srv.URL,
		Timeout: time.Second,
		Headers: map[string]string{"X-Default": "yes"},
	}, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Get(context.Background(), "/0/public/Time")
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusTeapot, resp.StatusCode())
}

func TestClient_Closed(t *testing.T) {
	c, err := NewClient(&Config{BaseURL: "https://api.kraken.com", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err = c.Post(context.Background(), "/0/private/Balance", "nonce=1")
	assert.ErrorIs(t, err, core.ErrClientClosed)

	_, err = c.Get(context.Background(), "/0/public/Time")
	assert.ErrorIs(t, err, core.ErrClientClosed)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(&Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Post(context.Background(), "/0/private/Balance", "nonce=1")
	assert.Error(t, err)
}

func TestClient_UserAgent(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		want      string
	}{
		{"default", "", DefaultUserAgent},
		{"custom", "sweeper-test/2", "sweeper-test/2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				got = r.Header.Get("User-Agent")
				w.WriteHeader(nethttp.StatusOK)
			}))
			defer srv.Close()

			c, err := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second, UserAgent: tt.userAgent}, zerolog.Nop())
			require.NoError(t, err)
			defer c.Close()

			_, err = c.Post(context.Background(), "/0/private/Balance", "nonce=1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_DoWithoutBody(t *testing.T) {
	var gotLen int64 = -1
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotLen = r.ContentLength
		w.WriteHeader(nethttp.StatusNoContent)
	}))
	defer srv.Close()

	c, err := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.Do(context.Background(), nethttp.MethodDelete, "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode())
	assert.Equal(t, int64(0), gotLen)
}
