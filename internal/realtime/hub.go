// Package realtime fans ballot events out to live dashboard subscribers.
// The hub is in-process; each API instance serves its own subscribers
// from the ballots it committed.
package realtime

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/logger"
)

// VoteDelta is one (position, candidate) increment from a committed ballot.
type VoteDelta struct {
	PositionID  uuid.UUID `json:"position_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
}

// BallotEvent announces a committed ballot to dashboard subscribers.
type BallotEvent struct {
	ElectionID uuid.UUID   `json:"election_id"`
	Deltas     []VoteDelta `json:"deltas"`
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber
// that falls this far behind starts dropping events; the dashboard
// resyncs from a full tally on reconnect anyway.
const subscriberBuffer = 16

// Hub tracks subscribers per election and delivers ballot events to them.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan BallotEvent]struct{}
	log         *log.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan BallotEvent]struct{}),
		log:         logger.Realtime(),
	}
}

// Subscribe registers a listener for one election's ballot events. The
// returned cancel function must be called when the listener goes away.
func (h *Hub) Subscribe(electionID uuid.UUID) (<-chan BallotEvent, func()) {
	ch := make(chan BallotEvent, subscriberBuffer)

	h.mu.Lock()
	if h.subscribers[electionID] == nil {
		h.subscribers[electionID] = make(map[chan BallotEvent]struct{})
	}
	h.subscribers[electionID][ch] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("subscriber added", "election_id", electionID)

	cancel := func() {
		h.mu.Lock()
		if subs, ok := h.subscribers[electionID]; ok {
			if _, present := subs[ch]; present {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(h.subscribers, electionID)
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers an event to every subscriber of its election. Sends
// never block; a full subscriber channel drops the event.
func (h *Hub) Publish(event BallotEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscribers[event.ElectionID]
	if !ok {
		return
	}

	for ch := range subs {
		select {
		case ch <- event:
		default:
			h.log.Warn("dropping event for slow subscriber", "election_id", event.ElectionID)
		}
	}
}

// SubscriberCount reports the number of live subscribers for an election.
func (h *Hub) SubscriberCount(electionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[electionID])
}
