package models

import "time"

// AuditLogEntry is an append-only record of a security-relevant action.
// UserID is empty when the actor is unauthenticated (e.g. a blocked login).
type AuditLogEntry struct {
	ID        string
	UserID    string
	Action    string
	IPAddress string
	UserAgent string
	Success   bool
	CreatedAt time.Time
}
