// Package handler adapts HTTP requests to the event and flyer services.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/application/flyer"
	"github.com/flyerhub/flyerd/internal/domain"
	mw "github.com/flyerhub/flyerd/internal/infrastructure/http/middleware"
	"github.com/flyerhub/flyerd/internal/infrastructure/http/openapi"
)

// EventService is the part of event.Service the API uses.
type EventService interface {
	CreateEvent(ctx context.Context, input event.CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListCurrentEvents(ctx context.Context, input event.ListEventsInput) (*domain.PagedEvents, error)
	FeedEvents(ctx context.Context) ([]*domain.Event, error)
}

// FlyerService is the part of flyer.Service the API uses.
type FlyerService interface {
	Analyze(ctx context.Context, input flyer.AnalyzeInput) (*flyer.AnalyzeResult, error)
	GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error)
}

// APIHandler serves the /v1 routes.
type APIHandler struct {
	events EventService
	flyers FlyerService
	now    func() time.Time

	// maxUploadMemory bounds the multipart form kept in memory.
	maxUploadMemory int64
}

// Option is a functional option for configuring APIHandler.
type Option func(*APIHandler)

// WithClock replaces time.Now for the calendar feed timestamp.
func WithClock(now func() time.Time) Option {
	return func(h *APIHandler) {
		h.now = now
	}
}

// WithMaxUploadMemory sets how much of a multipart upload is kept in memory.
func WithMaxUploadMemory(n int64) Option {
	return func(h *APIHandler) {
		h.maxUploadMemory = n
	}
}

// NewAPIHandler creates a new HTTP API handler.
func NewAPIHandler(events EventService, flyers FlyerService, opts ...Option) *APIHandler {
	h := &APIHandler{
		events:          events,
		flyers:          flyers,
		now:             time.Now,
		maxUploadMemory: 16 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewAPIRouter creates the /api router with OpenAPI request validation.
// Production code and tests both use it so they see identical behavior.
func NewAPIRouter(events EventService, flyers FlyerService, opts ...Option) (http.Handler, error) {
	h := NewAPIHandler(events, flyers, opts...)

	spec, err := openapi.GetSpec()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	validator, err := mw.NewValidator(spec, mw.ValidationConfig{MultiError: true})
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(validator)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyses", h.CreateAnalysis)
		r.Get("/analyses/{id}", h.GetAnalysis)

		r.Post("/events", h.CreateEvent)
		r.Get("/events", h.ListEvents)
		r.Get("/events.ics", h.EventsFeed)
		r.Get("/events/{id}", h.GetEvent)
		r.Delete("/events/{id}", h.DeleteEvent)
	})

	return r, nil
}
