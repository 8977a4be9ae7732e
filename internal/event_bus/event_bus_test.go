package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("should call handlers in subscription order", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var calls []int
		for i := 1; i <= 5; i++ {
			i := i
			bus.Subscribe(GoalAchievedType, func(e Event) error {
				calls = append(calls, i)
				return nil
			})
		}

		// when
		err := bus.Publish(NewEvent(ctx, GoalAchievedType, GoalAchieved{GoalId: "g1"}))

		// then
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)
	})

	t.Run("should deliver typed payloads only", func(t *testing.T) {
		// given
		bus := NewEventBus()
		var received []string
		SubscribeTyped[GoalAchieved](bus, GoalAchievedType, func(e EventT[GoalAchieved]) error {
			received = append(received, e.Data.GoalId)
			return nil
		})

		// when
		_ = bus.Publish(NewEvent(ctx, GoalAchievedType, "not a goal"))
		_ = bus.Publish(NewEvent(ctx, GoalAchievedType, GoalAchieved{GoalId: "g1"}))

		// then
		assert.Equal(t, []string{"g1"}, received)
	})

	t.Run("should keep running handlers after a failure", func(t *testing.T) {
		// given
		bus := NewEventBus()
		failure := errors.New("boom")
		called := false
		bus.Subscribe(CredentialChangedType, func(e Event) error { return failure })
		bus.Subscribe(CredentialChangedType, func(e Event) error { panic("kaboom") })
		bus.Subscribe(CredentialChangedType, func(e Event) error {
			called = true
			return nil
		})

		// when
		err := bus.Publish(NewEvent(ctx, CredentialChangedType, CredentialChanged{}))

		// then
		assert.ErrorIs(t, err, failure)
		assert.ErrorContains(t, err, "kaboom")
		assert.True(t, called)
	})

	t.Run("should stop calling an unsubscribed handler", func(t *testing.T) {
		// given
		bus := NewEventBus()
		count := 0
		unsubscribe := bus.Subscribe(DashboardStateChangedType, func(e Event) error {
			count++
			return nil
		})
		_ = bus.Publish(NewEvent(ctx, DashboardStateChangedType, DashboardStateChanged{}))

		// when
		unsubscribe()
		unsubscribe()
		_ = bus.Publish(NewEvent(ctx, DashboardStateChangedType, DashboardStateChanged{}))

		// then
		assert.Equal(t, 1, count)
	})

	t.Run("should refuse to publish with a cancelled context", func(t *testing.T) {
		bus := NewEventBus()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := bus.Publish(NewEvent(cancelled, GoalAchievedType, GoalAchieved{}))

		assert.ErrorIs(t, err, context.Canceled)
	})
}
