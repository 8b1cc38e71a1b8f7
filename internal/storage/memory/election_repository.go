package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
)

// InMemoryElectionRepository implements ElectionRepository over a Store.
type InMemoryElectionRepository struct {
	store *Store
}

// NewElectionRepository creates an in-memory election repository.
func NewElectionRepository(store *Store) *InMemoryElectionRepository {
	return &InMemoryElectionRepository{store: store}
}

func (r *InMemoryElectionRepository) Create(e *election.Election) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("election validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	copied := *e
	r.store.elections[e.ID] = &copied
	return nil
}

func (r *InMemoryElectionRepository) GetByID(id string) (*election.Election, error) {
	electionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.elections[electionID]
	if !ok {
		return nil, fmt.Errorf("%w: election %s", common.ErrNotFound, id)
	}

	copied := *e
	return &copied, nil
}

func (r *InMemoryElectionRepository) GetByOwner(ownerID string) ([]*election.Election, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var elections []*election.Election
	for _, e := range r.store.elections {
		if e.OwnerID == ownerUUID {
			copied := *e
			elections = append(elections, &copied)
		}
	}

	sort.Slice(elections, func(i, j int) bool {
		return elections[i].CreatedAt.After(elections[j].CreatedAt)
	})

	return elections, nil
}

// UpdateStatus applies the transition only when the stored status still
// matches from, matching the conditional UPDATE of the SQL repository.
func (r *InMemoryElectionRepository) UpdateStatus(electionID string, from, to election.Status) error {
	id, err := uuid.Parse(electionID)
	if err != nil {
		return fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.elections[id]
	if !ok {
		return fmt.Errorf("%w: election %s", common.ErrNotFound, electionID)
	}

	if e.Status != from {
		return fmt.Errorf("%w: election is no longer %s", common.ErrInvalidTransition, from.Label())
	}

	e.Status = to
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryElectionRepository) Delete(id string) error {
	electionID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.elections[electionID]; !ok {
		return fmt.Errorf("%w: election %s", common.ErrNotFound, id)
	}

	delete(r.store.elections, electionID)

	for voterID, v := range r.store.voters {
		if v.ElectionID == electionID {
			delete(r.store.voters, voterID)
		}
	}
	for groupID, g := range r.store.groups {
		if g.ElectionID == electionID {
			delete(r.store.groups, groupID)
		}
	}
	for positionID, p := range r.store.positions {
		if p.ElectionID == electionID {
			delete(r.store.positions, positionID)
		}
	}
	for candidateID, c := range r.store.candidates {
		if c.ElectionID == electionID {
			delete(r.store.candidates, candidateID)
		}
	}

	kept := r.store.entries[:0]
	for _, entry := range r.store.entries {
		if entry.ElectionID != electionID {
			kept = append(kept, entry)
		}
	}
	r.store.entries = kept

	return nil
}
