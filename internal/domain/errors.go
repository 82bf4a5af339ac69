package domain

import "errors"

// Domain errors returned by services and repository implementations.

var (
	// ErrEventNotFound indicates the requested event does not exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrAnalysisNotFound indicates the requested flyer analysis does not exist.
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title must be at most 255 characters")

	// ErrInvalidDate indicates a date that is not an ISO calendar date (YYYY-MM-DD).
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidDays indicates a day-of-month number outside 1..31.
	ErrInvalidDays = errors.New("day numbers must be between 1 and 31")

	// ErrImageNotFound indicates no stored flyer image has the requested key.
	ErrImageNotFound = errors.New("image not found")

	ErrImageRequired        = errors.New("an image upload or image_url is required")
	ErrInvalidImageURL      = errors.New("image_url must be an absolute http(s) URL")
	ErrImageTooLarge        = errors.New("image exceeds the maximum allowed size")
	ErrUnsupportedImageType = errors.New("unsupported image type, expected jpeg, png, webp or gif")

	// ErrVisionUnavailable indicates the vision model could not be reached or
	// returned nothing usable.
	ErrVisionUnavailable = errors.New("vision model unavailable")
)
