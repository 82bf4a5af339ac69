package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/flyerhub/flyerd/internal/infrastructure/http/response"
)

const payloadTooLargeMessage = "request body exceeds size limit"

// MaxBodyBytes rejects request bodies over limit with 413 PAYLOAD_TOO_LARGE.
//
// A declared Content-Length over the limit is rejected before reading. A declared
// length within the limit streams through a MaxBytesReader, so flyer uploads are
// not copied. Bodies of unknown length (chunked) are buffered up to the limit
// and rejected if they exceed it.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				rejectOversized(w, r, limit, nil)
				return
			}

			if r.ContentLength >= 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
				next.ServeHTTP(w, r)
				return
			}

			buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
			if err != nil {
				rejectOversized(w, r, limit, err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(buf))
			r.ContentLength = int64(len(buf))
			next.ServeHTTP(w, r)
		})
	}
}

func rejectOversized(w http.ResponseWriter, r *http.Request, limit int64, err error) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"content_length", r.ContentLength,
		"limit", limit,
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	slog.WarnContext(r.Context(), "Request body size limit exceeded", attrs...)

	response.Error(w, "PAYLOAD_TOO_LARGE", payloadTooLargeMessage, http.StatusRequestEntityTooLarge)
}
