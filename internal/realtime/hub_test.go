package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	electionID := uuid.New()

	ch, cancel := hub.Subscribe(electionID)
	defer cancel()

	event := BallotEvent{
		ElectionID: electionID,
		Deltas: []VoteDelta{
			{PositionID: uuid.New(), CandidateID: uuid.New()},
		},
	}
	hub.Publish(event)

	select {
	case got := <-ch:
		assert.Equal(t, event.ElectionID, got.ElectionID)
		assert.Len(t, got.Deltas, 1)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishScopedToElection(t *testing.T) {
	hub := NewHub()

	chA, cancelA := hub.Subscribe(uuid.New())
	defer cancelA()

	electionB := uuid.New()
	chB, cancelB := hub.Subscribe(electionB)
	defer cancelB()

	hub.Publish(BallotEvent{ElectionID: electionB})

	select {
	case <-chB:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case <-chA:
		t.Fatal("event leaked to another election's subscriber")
	default:
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	electionID := uuid.New()

	ch, cancel := hub.Subscribe(electionID)
	require.Equal(t, 1, hub.SubscriberCount(electionID))

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount(electionID))

	// The channel is closed so a ranging consumer terminates.
	_, open := <-ch
	assert.False(t, open)

	// Cancel is idempotent.
	cancel()
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub()
	electionID := uuid.New()

	_, cancel := hub.Subscribe(electionID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish(BallotEvent{ElectionID: electionID})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
