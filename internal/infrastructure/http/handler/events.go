package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/infrastructure/icalfeed"
	"github.com/flyerhub/flyerd/internal/infrastructure/http/response"
)

// CreateEvent handles POST /v1/events.
func (h *APIHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	created, err := h.events.CreateEvent(r.Context(), event.CreateEventInput{
		Title:          req.Title,
		Description:    valueOr(req.Description, ""),
		Location:       valueOr(req.Location, ""),
		StartTime:      valueOr(req.StartTime, ""),
		PrimaryDate:    valueOr(req.PrimaryDate, ""),
		IsRecurring:    valueOr(req.IsRecurring, false),
		RecurringDates: req.RecurringDates,
		SpecificDays:   req.SpecificDays,
		ImageURL:       valueOr(req.ImageURL, ""),
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, MapEventToDTO(created))
}

// GetEvent handles GET /v1/events/{id}.
func (h *APIHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapEventToDTO(e))
}

// DeleteEvent handles DELETE /v1/events/{id}.
func (h *APIHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// ListEvents handles GET /v1/events.
// Expired events are hidden unless include_expired=true.
func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	input, invalid := parseListQuery(r.URL.Query())
	if invalid != nil {
		response.ValidationError(w, invalid.Field, invalid.Issue)
		return
	}

	result, err := h.events.ListCurrentEvents(r.Context(), input)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, ListEventsResponse{
		Events:        MapEventsToDTO(result.Events),
		TotalCount:    result.TotalCount,
		NextPageToken: nextPageToken(result),
	})
}

// EventsFeed handles GET /v1/events.ics.
func (h *APIHandler) EventsFeed(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.FeedEvents(r.Context())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	body := icalfeed.Render(events, h.now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write calendar feed", "error", err)
	}
}
