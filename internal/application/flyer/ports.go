package flyer

import (
	"context"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/domain"
)

// Image is a flyer image held in memory.
type Image struct {
	Data        []byte
	ContentType string
}

// Reply is what the vision model answered.
type Reply struct {
	Model   string
	Content string
}

// Vision describes a flyer image. Implementations return errors wrapping
// domain.ErrVisionUnavailable when the model cannot be used.
type Vision interface {
	Describe(ctx context.Context, img Image) (*Reply, error)
}

// ImageStore keeps uploaded flyer images.
type ImageStore interface {
	// Put stores data under key and returns the URL it is served from.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes the image stored under key.
	Delete(ctx context.Context, key string) error
}

// Fetcher downloads remote flyer images.
type Fetcher interface {
	// Fetch returns at most maxBytes of the resource, failing with
	// domain.ErrImageTooLarge beyond that.
	Fetch(ctx context.Context, url string, maxBytes int64) (*Image, error)
}

// Repository defines storage operations for analyses.
type Repository interface {
	CreateAnalysis(ctx context.Context, analysis *domain.Analysis) (*domain.Analysis, error)

	// FindAnalysisByID returns domain.ErrAnalysisNotFound if the analysis doesn't exist.
	FindAnalysisByID(ctx context.Context, id string) (*domain.Analysis, error)

	// AttachEvent records the event created from an analysis.
	AttachEvent(ctx context.Context, analysisID, eventID string) error
}

// EventCreator creates events from analyses.
type EventCreator interface {
	CreateEvent(ctx context.Context, input event.CreateEventInput) (*domain.Event, error)
}
