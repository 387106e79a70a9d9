package models

import "time"

// VaultEntry is an opaque encrypted record. EncryptedData and Nonce are
// produced client-side and stored/returned byte-for-byte; the server never
// interprets them. CategoryID is empty when the entry is uncategorized.
type VaultEntry struct {
	ID            string
	UserID        string
	CategoryID    string
	EncryptedData string
	Nonce         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
