// Package memory provides in-memory implementations of the storage
// repositories. They mirror the PostgreSQL semantics, including the
// compare-and-set guards, and back the service tests.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/group"
	"github.com/justCallMeJeg/eboto/internal/domain/organizer"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
)

// Store holds all in-memory tables behind a single mutex. Repositories
// share one Store so cross-table operations (ballot submission flipping
// has_voted, voter creation bumping voter_count) stay atomic the way the
// SQL transactions keep them.
type Store struct {
	mu         sync.RWMutex
	elections  map[uuid.UUID]*election.Election
	organizers map[uuid.UUID]*organizer.Organizer
	voters     map[uuid.UUID]*voter.Voter
	groups     map[uuid.UUID]*group.Group
	positions  map[uuid.UUID]*position.Position
	candidates map[uuid.UUID]*position.Candidate
	entries    []*ballot.Entry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		elections:  make(map[uuid.UUID]*election.Election),
		organizers: make(map[uuid.UUID]*organizer.Organizer),
		voters:     make(map[uuid.UUID]*voter.Voter),
		groups:     make(map[uuid.UUID]*group.Group),
		positions:  make(map[uuid.UUID]*position.Position),
		candidates: make(map[uuid.UUID]*position.Candidate),
	}
}
