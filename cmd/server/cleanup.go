package main

import (
	"context"
)

// shutdowner abstracts observability.Telemetry so tests can verify cleanup
// order without real exporters.
type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup releases application resources first and flushes telemetry last,
// so logs written while closing stores are still exported.
func newCleanup(appCleanup func(), tel shutdowner) func() {
	return func() {
		if appCleanup != nil {
			appCleanup()
		}
		if tel != nil {
			shutdownTelemetry(tel)
		}
	}
}
