// Package cryptox wraps the password hashing used for user credentials.
package cryptox

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for stored credentials.
const PasswordCost = 10

// MaxPasswordLength is the longest input bcrypt accepts.
const MaxPasswordLength = 72

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, PasswordCost)
}

// ComparePassword reports whether password matches hash. A malformed hash
// is treated as a mismatch.
func ComparePassword(hash, password []byte) bool {
	err := bcrypt.CompareHashAndPassword(hash, password)
	return err == nil
}
