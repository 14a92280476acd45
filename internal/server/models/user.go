package models

import "time"

// User is a registered account. It is created at signup and never mutated.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
