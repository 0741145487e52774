package model

import "time"

// LogAction tags an activity log entry.
type LogAction string

const (
	ActionView     LogAction = "view"
	ActionDownload LogAction = "download"
)

// ActivityLogEntry is one record in the append-only audit trail of
// view/download actions. Entries are never mutated or deleted.
type ActivityLogEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	DocumentID string    `json:"document_id"`
	Action     LogAction `json:"action"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}
