package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/flyerhub/flyerd/internal/infrastructure/http/response"
	"github.com/flyerhub/flyerd/internal/infrastructure/images"
)

// ImageReader reads stored flyer images.
type ImageReader interface {
	Get(ctx context.Context, key string) (*images.Object, error)
}

// NewImageHandler serves stored flyer images under a "/*" route.
// Keys are immutable, so responses are cacheable for a long time.
func NewImageHandler(store ImageReader) http.Handler {
	r := chi.NewRouter()
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		obj, err := store.Get(r.Context(), chi.URLParam(r, "*"))
		if err != nil {
			response.FromDomainError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", obj.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(obj.Data); err != nil {
			slog.ErrorContext(r.Context(), "Failed to write image", "error", err)
		}
	})
	return r
}
