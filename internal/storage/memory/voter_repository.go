package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
)

// InMemoryVoterRepository implements VoterRepository over a Store.
type InMemoryVoterRepository struct {
	store *Store
}

// NewVoterRepository creates an in-memory voter repository.
func NewVoterRepository(store *Store) *InMemoryVoterRepository {
	return &InMemoryVoterRepository{store: store}
}

// Create registers the voter and bumps the election's voter_count under
// the same lock, mirroring the SQL transaction.
func (r *InMemoryVoterRepository) Create(v *voter.Voter) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("voter validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.voters {
		if existing.ElectionID == v.ElectionID && existing.Email == v.Email {
			return common.ErrDuplicateVoter
		}
	}

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	copied := *v
	r.store.voters[v.ID] = &copied

	if e, ok := r.store.elections[v.ElectionID]; ok {
		e.VoterCount++
	}

	return nil
}

func (r *InMemoryVoterRepository) GetByID(electionID, voterID string) (*voter.Voter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid voter ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	v, ok := r.store.voters[voterUUID]
	if !ok || v.ElectionID != electionUUID {
		return nil, fmt.Errorf("%w: voter %s", common.ErrNotFound, voterID)
	}

	copied := *v
	return &copied, nil
}

func (r *InMemoryVoterRepository) GetByEmail(electionID, email string) (*voter.Voter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}
	normalized := voter.NormalizeEmail(email)

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, v := range r.store.voters {
		if v.ElectionID == electionUUID && v.Email == normalized {
			copied := *v
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("%w: voter %s", common.ErrNotFound, normalized)
}

func (r *InMemoryVoterRepository) GetByElection(electionID string) ([]*voter.Voter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var voters []*voter.Voter
	for _, v := range r.store.voters {
		if v.ElectionID == electionUUID {
			copied := *v
			voters = append(voters, &copied)
		}
	}

	sort.Slice(voters, func(i, j int) bool {
		return voters[i].Email < voters[j].Email
	})

	return voters, nil
}

func (r *InMemoryVoterRepository) Update(v *voter.Voter) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("voter validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.voters[v.ID]
	if !ok || existing.ElectionID != v.ElectionID {
		return fmt.Errorf("%w: voter %s", common.ErrNotFound, v.ID)
	}

	existing.Email = v.Email
	existing.GroupID = v.GroupID
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete removes the voter and decrements voter_count under the same lock.
func (r *InMemoryVoterRepository) Delete(electionID, voterID string) error {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return fmt.Errorf("%w: invalid voter ID format", common.ErrNotFound)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	v, ok := r.store.voters[voterUUID]
	if !ok || v.ElectionID != electionUUID {
		return fmt.Errorf("%w: voter %s", common.ErrNotFound, voterID)
	}

	delete(r.store.voters, voterUUID)

	if e, ok := r.store.elections[electionUUID]; ok && e.VoterCount > 0 {
		e.VoterCount--
	}

	return nil
}
