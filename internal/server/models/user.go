// Package models defines the persistence structs shared by repositories and
// services on the server side.
package models

import "time"

// User is an identity record. Email is the case-insensitive identity key and
// is stored lowercased. MasterKeySalt is opaque to the server: it is handed
// to the authenticated owner for client-side key derivation and never
// regenerated. TOTPSecret is set during second-factor setup and only
// enforced once TOTPEnabled is true.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	MasterKeySalt   string
	TOTPSecret      string
	TOTPEnabled     bool
	Language        string
	AutoLockMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
