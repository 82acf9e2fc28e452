package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/domain"
)

func TestDispatcher_PublishReachesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventUserSignedUp, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	user := &domain.User{ID: "user-1", Email: "a@x.com"}
	err := d.Publish(context.Background(), NewUserSignedUp(user))
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, EventUserSignedUp, received[0].Type)
	assert.Equal(t, "user-1", received[0].UserID)
	assert.Equal(t, "a@x.com", received[0].Email)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestDispatcher_HandlerErrorsDoNotPropagate(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(EventUserSignedIn, func(context.Context, Event) error {
		calls++
		return errors.New("listener failed")
	})
	d.Subscribe(EventUserSignedIn, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewUserSignedIn(&domain.User{ID: "u", Email: "e"}))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDispatcher_IgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()
	err := d.Publish(context.Background(), NewUserSignedIn(&domain.User{ID: "u", Email: "e"}))
	require.NoError(t, err)
}
