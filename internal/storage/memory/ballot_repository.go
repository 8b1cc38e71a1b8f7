package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
)

// InMemoryBallotRepository implements BallotRepository over a Store.
type InMemoryBallotRepository struct {
	store *Store
}

// NewBallotRepository creates an in-memory ballot repository.
func NewBallotRepository(store *Store) *InMemoryBallotRepository {
	return &InMemoryBallotRepository{store: store}
}

// Submit appends the entries and flips has_voted under one lock. The
// compare-and-set on has_voted matches the SQL transaction: of two
// concurrent submissions exactly one wins, the other gets ErrAlreadyVoted
// and leaves no entries behind.
func (r *InMemoryBallotRepository) Submit(electionID, voterID string, entries []*ballot.Entry) error {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return fmt.Errorf("%w: invalid voter ID format", common.ErrNotFound)
	}

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("ballot entry validation failed: %w", err)
		}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v, ok := r.store.voters[voterUUID]
	if !ok || v.ElectionID != electionUUID {
		return fmt.Errorf("%w: voter %s", common.ErrNotFound, voterID)
	}

	if err := v.MarkVoted(time.Now().UTC()); err != nil {
		return common.ErrAlreadyVoted
	}

	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		copied := *entry
		r.store.entries = append(r.store.entries, &copied)
	}

	return nil
}

func (r *InMemoryBallotRepository) GetByElection(electionID string) ([]*ballot.Entry, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var entries []*ballot.Entry
	for _, entry := range r.store.entries {
		if entry.ElectionID == electionUUID {
			copied := *entry
			entries = append(entries, &copied)
		}
	}

	return entries, nil
}

func (r *InMemoryBallotRepository) CountDistinctVoters(electionID string) (int64, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, v := range r.store.voters {
		if v.ElectionID == electionUUID && v.HasVoted {
			count++
		}
	}

	return count, nil
}
