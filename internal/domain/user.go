package domain

import "time"

// User is the persisted account entity. Email is matched exactly as stored;
// no case normalization happens anywhere in the service.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
