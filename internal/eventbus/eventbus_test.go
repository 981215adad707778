package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refract/internal/domain"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()

	var got atomic.Value
	bus.Subscribe(EventRunRequested, func(e DomainEvent) {
		got.Store(e)
	})

	bus.Publish(RunRequestedEvent{Entry: domain.Entry{Name: "build"}})

	waitFor(t, func() bool { return got.Load() != nil })
	event, ok := got.Load().(RunRequestedEvent)
	require.True(t, ok)
	assert.Equal(t, "build", event.Entry.Name)
}

func TestSubscriberOnlySeesItsEventType(t *testing.T) {
	bus := New()

	var runs, errors atomic.Int64
	bus.Subscribe(EventRunCompleted, func(DomainEvent) { runs.Add(1) })
	bus.Subscribe(EventError, func(DomainEvent) { errors.Add(1) })

	bus.Publish(RunCompletedEvent{})
	bus.Publish(RunCompletedEvent{})
	bus.Publish(ErrorEvent{Message: "boom"})

	waitFor(t, func() bool { return runs.Load() == 2 && errors.Load() == 1 })
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	var calls atomic.Int64
	unsub := bus.Subscribe(EventConfigSaved, func(DomainEvent) { calls.Add(1) })

	bus.Publish(ConfigSavedEvent{})
	waitFor(t, func() bool { return calls.Load() == 1 })

	unsub()
	bus.Publish(ConfigSavedEvent{})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestHandlerPanicDoesNotKillDispatch(t *testing.T) {
	bus := New()

	bus.Subscribe(EventError, func(DomainEvent) { panic("handler bug") })

	var calls atomic.Int64
	bus.Subscribe(EventError, func(DomainEvent) { calls.Add(1) })

	bus.Publish(ErrorEvent{Message: "first"})
	bus.Publish(ErrorEvent{Message: "second"})

	waitFor(t, func() bool { return calls.Load() == 2 })
}
