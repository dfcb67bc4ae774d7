package models

import "time"

// Notification is one best-effort usage event recorded for a session
// (upload, download, history access and so on).
type Notification struct {
	ID        int64
	SessionID string
	Kind      string
	Message   string
	CreatedAt time.Time
	Read      bool
}
