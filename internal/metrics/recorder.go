// Package metrics records fetch and aggregation observations. Components take
// a Recorder and default to NoopRecorder when metrics are disabled.
package metrics

import "time"

// Fetch kinds.
const (
	KindManifest = "manifest"
	KindDocument = "document"
)

// Recorder defines the observability hooks of the content pipeline.
type Recorder interface {
	IncFetch(kind string, success bool)
	ObserveAggregation(page string, d time.Duration, entries int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncFetch(string, bool)                          {}
func (NoopRecorder) ObserveAggregation(string, time.Duration, int) {}
