package models

import "time"

// Category groups vault entries for a single user. Cross-user references
// are never permitted.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Icon      string
	CreatedAt time.Time
}
