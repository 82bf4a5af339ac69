package vision

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:   srv.URL + "/v1/",
		APIKey:    "sk-test",
		Model:     "gpt-4o-mini",
		MaxTokens: 256,
	}, WithHTTPClient(srv.Client()))
}

func TestDescribe_Success(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4o-mini-2024","choices":[{"message":{"content":"{\"title\":\"Jazz\"}"}}]}`))
	})

	reply, err := client.Describe(t.Context(), flyer.Image{Data: []byte("img"), ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini-2024", reply.Model)
	assert.Equal(t, `{"title":"Jazz"}`, reply.Content)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 256, got["max_tokens"])

	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, Prompt, messages[0].(map[string]any)["content"])

	parts := messages[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	image := parts[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/png;base64,aW1n", image["url"])
}

func TestDescribe_FallsBackToConfiguredModel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	})

	reply, err := client.Describe(t.Context(), flyer.Image{Data: []byte("x"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", reply.Model)
}

func TestDescribe_Unavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
		{"empty content", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  "}}]}`))
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Describe(t.Context(), flyer.Image{Data: []byte("x"), ContentType: "image/png"})
			assert.ErrorIs(t, err, domain.ErrVisionUnavailable)
		})
	}
}

func TestDescribe_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: url, Model: "m"})
	_, err := client.Describe(t.Context(), flyer.Image{Data: []byte("x"), ContentType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrVisionUnavailable)
}
