package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func serve(s *APIServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServerConfig_ApplyDefaults(t *testing.T) {
	t.Run("applies all defaults for zero config", func(t *testing.T) {
		cfg := ServerConfig{}
		cfg.applyDefaults()

		assert.Equal(t, DefaultPort, cfg.Port)
		assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
		assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout)
		assert.Equal(t, DefaultIdleTimeout, cfg.IdleTimeout)
		assert.Equal(t, DefaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
		assert.Equal(t, DefaultMaxHeaderBytes, cfg.MaxHeaderBytes)
		assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.MaxBodyBytes)
	})

	t.Run("preserves non-zero values", func(t *testing.T) {
		cfg := ServerConfig{Port: "9000", MaxHeaderBytes: 2048, MaxBodyBytes: 4096}
		cfg.applyDefaults()

		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, 2048, cfg.MaxHeaderBytes)
		assert.Equal(t, int64(4096), cfg.MaxBodyBytes)
		assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	})
}

func TestHealth(t *testing.T) {
	t.Run("ok without a check", func(t *testing.T) {
		s := NewAPIServer(okHandler("api"), nil, ServerConfig{})

		w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("unavailable when the check fails", func(t *testing.T) {
		s := NewAPIServer(okHandler("api"), nil, ServerConfig{
			HealthCheck: func(context.Context) error { return errors.New("db down") },
		})

		w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func TestRouting(t *testing.T) {
	api := chi.NewRouter()
	api.Get("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})
	s := NewAPIServer(api, okHandler("image"), ServerConfig{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, "pong", w.Body.String())

	w = serve(s, httptest.NewRequest(http.MethodGet, "/images/flyers/a.png", nil))
	assert.Equal(t, "image", w.Body.String())

	w = serve(s, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaxBodyBytes_Applied(t *testing.T) {
	s := NewAPIServer(okHandler("api"), nil, ServerConfig{MaxBodyBytes: 16})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", strings.NewReader(strings.Repeat("x", 64)))
	w := serve(s, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestMaxHeaderBytes_EnforcesLimit(t *testing.T) {
	// http.Server allows roughly 4KB on top of MaxHeaderBytes.
	s := NewAPIServer(okHandler("api"), nil, ServerConfig{MaxHeaderBytes: 4 * 1024})

	server := httptest.NewUnstartedServer(s.Handler())
	server.Config.MaxHeaderBytes = s.server.MaxHeaderBytes
	server.Start()
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Test", strings.Repeat("A", 2*1024))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req.Header.Set("X-Test", strings.Repeat("A", 20*1024))
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		// Connection errors also mean the request was rejected.
		return
	}
	resp.Body.Close()
	assert.Equal(t, http.StatusRequestHeaderFieldsTooLarge, resp.StatusCode)
}
