package flyer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/recurring"
)

const meterName = "github.com/flyerhub/flyerd/internal/application/flyer"

// DefaultMaxImageBytes is used when Config.MaxImageBytes is zero.
const DefaultMaxImageBytes = 10 << 20

// imageExtensions lists the accepted content types and their file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Config holds configuration for the Service.
type Config struct {
	MaxImageBytes int64

	// Location is the timezone the reference month is taken in.
	Location *time.Location

	// MaxWindowMonths caps recurring windows. Zero uses recurring.DefaultMaxWindowMonths.
	MaxWindowMonths int
}

// AnalyzeInput is one flyer to analyze: either uploaded bytes or a URL.
type AnalyzeInput struct {
	Data     []byte
	ImageURL string

	// CreateEvent also creates an event from the analysis.
	CreateEvent bool
}

// AnalyzeResult is the stored analysis and, when requested, the created event.
type AnalyzeResult struct {
	Analysis *domain.Analysis
	Event    *domain.Event
}

// Service turns flyer images into analyses.
type Service struct {
	repo       Repository
	vision     Vision
	images     ImageStore
	fetcher    Fetcher
	events     EventCreator
	normalizer recurring.Normalizer
	config     Config
	now        func() time.Time

	analyses      metric.Int64Counter
	expandedDates metric.Int64Histogram
}

// Option is a functional option for configuring Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMeterProvider records metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) {
		s.initMetrics(mp)
	}
}

// NewService creates a flyer analysis service.
func NewService(repo Repository, vision Vision, images ImageStore, fetcher Fetcher, events EventCreator, config Config, opts ...Option) *Service {
	if config.MaxImageBytes <= 0 {
		config.MaxImageBytes = DefaultMaxImageBytes
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	s := &Service{
		repo:       repo,
		vision:     vision,
		images:     images,
		fetcher:    fetcher,
		events:     events,
		normalizer: recurring.Normalizer{MaxWindowMonths: config.MaxWindowMonths},
		config:     config,
		now:        time.Now,
	}
	s.initMetrics(otel.GetMeterProvider())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) initMetrics(mp metric.MeterProvider) {
	meter := mp.Meter(meterName)

	counter, err := meter.Int64Counter("flyer.analyses",
		metric.WithDescription("Flyer analyses stored, by resolved pattern kind"),
	)
	if err != nil {
		slog.Warn("failed to create flyer.analyses counter", "error", err)
		counter = noop.Int64Counter{}
	}
	histogram, err := meter.Int64Histogram("flyer.expanded_dates",
		metric.WithDescription("Dates produced per analysis"),
		metric.WithUnit("{date}"),
	)
	if err != nil {
		slog.Warn("failed to create flyer.expanded_dates histogram", "error", err)
		histogram = noop.Int64Histogram{}
	}
	s.analyses, s.expandedDates = counter, histogram
}

// Analyze stores the flyer image, asks the vision model to describe it and
// resolves the described date pattern into concrete dates.
//
// Dates computed by the model are never used: only the pattern parameters it
// reports are read, and expansion happens here.
//
// The image is removed again when no analysis is stored. If event creation
// fails, the stored analysis is returned together with the error.
func (s *Service) Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeResult, error) {
	img, source, err := s.loadImage(ctx, input)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	key := "flyers/" + id.String() + imageExtensions[img.ContentType]
	imageURL, err := s.images.Put(ctx, key, img.ContentType, img.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store flyer image: %w", err)
	}

	reply, err := s.vision.Describe(ctx, *img)
	if err != nil {
		s.discardImage(ctx, key)
		return nil, fmt.Errorf("failed to describe flyer %s: %w", id, err)
	}

	obj, ok := extractJSONObject(reply.Content)
	if !ok {
		slog.WarnContext(ctx, "Vision reply has no JSON object", "analysis_id", id.String())
		obj = []byte("{}")
	}

	var guess recurring.Guess
	_ = json.Unmarshal(obj, &guess) // Guess decoding never fails.
	fields := decodeFields(obj)

	now := s.now()
	reference := recurring.YearMonthOf(now.In(s.config.Location))
	res := s.normalizer.Resolve(guess, reference)

	patternJSON, err := json.Marshal(res.Pattern)
	if err != nil {
		s.discardImage(ctx, key)
		return nil, fmt.Errorf("failed to encode pattern: %w", err)
	}

	slog.DebugContext(ctx, "Flyer pattern resolved",
		"analysis_id", id.String(),
		"kind", res.Pattern.Kind,
		"dates", len(res.RecurringDates),
		"expires_on", res.Expiration,
	)

	analysis := &domain.Analysis{
		ID:             id.String(),
		ImageURL:       imageURL,
		ImageKey:       key,
		Source:         source,
		Model:          reply.Model,
		RawResponse:    reply.Content,
		Extracted:      fields,
		Guess:          guess,
		PatternKind:    res.Pattern.Kind,
		Pattern:        patternJSON,
		PrimaryDate:    res.PrimaryDate,
		IsRecurring:    res.IsRecurring,
		RecurringDates: res.RecurringDates,
		CreatedAt:      now.UTC(),
	}
	if res.Expiration != "" {
		analysis.ExpiresOn = &res.Expiration
	}

	stored, err := s.repo.CreateAnalysis(ctx, analysis)
	if err != nil {
		s.discardImage(ctx, key)
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	kindAttr := metric.WithAttributes(attribute.String("pattern.kind", string(res.Pattern.Kind)))
	s.analyses.Add(ctx, 1, kindAttr)
	s.expandedDates.Record(ctx, int64(len(res.RecurringDates)), kindAttr)

	result := &AnalyzeResult{Analysis: stored}
	if !input.CreateEvent {
		return result, nil
	}

	created, err := s.events.CreateEvent(ctx, event.CreateEventInput{
		Title:          fields.Title,
		Description:    fields.Description,
		Location:       fields.Location,
		StartTime:      fields.Time,
		PrimaryDate:    stored.PrimaryDate,
		IsRecurring:    stored.IsRecurring,
		RecurringDates: stored.RecurringDates,
		PatternKind:    stored.PatternKind,
		ImageURL:       stored.ImageURL,
		AnalysisID:     &stored.ID,
		Source:         stored.Source,
	})
	if err != nil {
		return result, fmt.Errorf("failed to create event from analysis %s: %w", stored.ID, err)
	}

	result.Event = created

	// The event already carries the analysis ID; a failed back-link only warns.
	if err := s.repo.AttachEvent(ctx, stored.ID, created.ID); err != nil {
		slog.WarnContext(ctx, "Failed to link event to analysis",
			"analysis_id", stored.ID,
			"event_id", created.ID,
			"error", err)
		return result, nil
	}
	stored.EventID = &created.ID

	return result, nil
}

// discardImage removes an image whose analysis was not stored. It runs even
// when ctx is already cancelled.
func (s *Service) discardImage(ctx context.Context, key string) {
	if err := s.images.Delete(context.WithoutCancel(ctx), key); err != nil {
		slog.WarnContext(ctx, "Failed to remove flyer image", "key", key, "error", err)
	}
}

// GetAnalysis retrieves an analysis by ID.
func (s *Service) GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindAnalysisByID(ctx, id)
}

// loadImage resolves the input to validated image bytes.
func (s *Service) loadImage(ctx context.Context, input AnalyzeInput) (*Image, domain.Source, error) {
	var (
		img    *Image
		source domain.Source
	)

	switch {
	case len(input.Data) > 0:
		img = &Image{Data: input.Data}
		source = domain.SourceUpload

	case input.ImageURL != "":
		u, err := url.Parse(input.ImageURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, "", domain.ErrInvalidImageURL
		}
		if img, err = s.fetcher.Fetch(ctx, u.String(), s.config.MaxImageBytes); err != nil {
			return nil, "", fmt.Errorf("failed to fetch flyer image: %w", err)
		}
		source = domain.SourceURL

	default:
		return nil, "", domain.ErrImageRequired
	}

	if int64(len(img.Data)) > s.config.MaxImageBytes {
		return nil, "", domain.ErrImageTooLarge
	}

	// Declared types are not trusted; the bytes decide.
	img.ContentType = http.DetectContentType(img.Data)
	if _, ok := imageExtensions[img.ContentType]; !ok {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrUnsupportedImageType, img.ContentType)
	}

	return img, source, nil
}
