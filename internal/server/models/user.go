// Package models holds the server-side persistent types.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt digest; the
// plaintext never reaches this type.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
