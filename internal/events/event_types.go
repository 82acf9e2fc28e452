package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/account-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp EventType = "user_signed_up"
	EventUserSignedIn EventType = "user_signed_in"
)

// Event represents an account event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserSignedUp builds a signup event for the given user.
func NewUserSignedUp(user *domain.User) Event {
	return newEvent(EventUserSignedUp, user)
}

// NewUserSignedIn builds a signin event for the given user.
func NewUserSignedIn(user *domain.User) Event {
	return newEvent(EventUserSignedIn, user)
}

func newEvent(eventType EventType, user *domain.User) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Email:     user.Email,
		Timestamp: time.Now().UTC(),
	}
}
