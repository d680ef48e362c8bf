// Package models defines server-side data models persisted in the database.
package models

// User is an account. PasswordHash is a bcrypt hash and never leaves the
// server.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}
