package domain

// Source records how an event or a flyer image entered the system.
// Value object - immutable string enum.
type Source string

const (
	SourceManual Source = "MANUAL"
	SourceUpload Source = "UPLOAD"
	SourceURL    Source = "URL"
)
