// Package events delivers best-effort usage notifications. Sinks are
// fire-and-forget: a failing sink must never abort the operation that
// emitted the event.
package events

import "context"

// Event kinds emitted by the vault and the HTTP layer.
const (
	KindUpload        = "File Upload"
	KindDownload      = "File Download"
	KindHistoryAccess = "History Access"
	KindSearch        = "File Search"
)

// Sink records one event for a subject (session). Implementations swallow
// their own errors.
type Sink interface {
	Record(ctx context.Context, subjectID, kind, message string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Record(context.Context, string, string, string) {}
