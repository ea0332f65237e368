package user

import "time"

// User represents a registered wallet owner. The ledger only ever references
// users by id; nothing in this service mutates a user after registration.
type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
