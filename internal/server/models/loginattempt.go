package models

import "time"

// LoginAttempt records one failed login for the (email, ip) pair. Rows are
// counted over a sliding window by the brute-force guard and deleted in bulk
// on the next successful login for that pair.
type LoginAttempt struct {
	ID        string
	Email     string
	IPAddress string
	CreatedAt time.Time
}
