package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/group"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
)

// InMemoryGroupRepository implements GroupRepository over a Store.
type InMemoryGroupRepository struct {
	store *Store
}

// NewGroupRepository creates an in-memory group repository.
func NewGroupRepository(store *Store) *InMemoryGroupRepository {
	return &InMemoryGroupRepository{store: store}
}

func (r *InMemoryGroupRepository) Create(g *group.Group) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("group validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	copied := *g
	r.store.groups[g.ID] = &copied
	return nil
}

func (r *InMemoryGroupRepository) GetByID(electionID, groupID string) (*group.Group, error) {
	electionUUID, entityUUID, err := parseScopedIDs(electionID, groupID)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	g, ok := r.store.groups[entityUUID]
	if !ok || g.ElectionID != electionUUID {
		return nil, fmt.Errorf("%w: group %s", common.ErrNotFound, groupID)
	}

	copied := *g
	return &copied, nil
}

func (r *InMemoryGroupRepository) GetByElection(electionID string) ([]*group.Group, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var groups []*group.Group
	for _, g := range r.store.groups {
		if g.ElectionID == electionUUID {
			copied := *g
			groups = append(groups, &copied)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})

	return groups, nil
}

func (r *InMemoryGroupRepository) Update(g *group.Group) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("group validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.groups[g.ID]
	if !ok || existing.ElectionID != g.ElectionID {
		return fmt.Errorf("%w: group %s", common.ErrNotFound, g.ID)
	}

	existing.Name = g.Name
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryGroupRepository) Delete(electionID, groupID string) error {
	electionUUID, entityUUID, err := parseScopedIDs(electionID, groupID)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	g, ok := r.store.groups[entityUUID]
	if !ok || g.ElectionID != electionUUID {
		return fmt.Errorf("%w: group %s", common.ErrNotFound, groupID)
	}

	delete(r.store.groups, entityUUID)

	// ON DELETE SET NULL behavior for voters and candidates in the group.
	for _, v := range r.store.voters {
		if v.GroupID != nil && *v.GroupID == entityUUID {
			v.GroupID = nil
		}
	}
	for _, c := range r.store.candidates {
		if c.GroupID != nil && *c.GroupID == entityUUID {
			c.GroupID = nil
		}
	}

	return nil
}

// InMemoryPositionRepository implements PositionRepository over a Store.
type InMemoryPositionRepository struct {
	store *Store
}

// NewPositionRepository creates an in-memory position repository.
func NewPositionRepository(store *Store) *InMemoryPositionRepository {
	return &InMemoryPositionRepository{store: store}
}

func (r *InMemoryPositionRepository) Create(p *position.Position) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("position validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copied := *p
	r.store.positions[p.ID] = &copied
	return nil
}

func (r *InMemoryPositionRepository) GetByID(electionID, positionID string) (*position.Position, error) {
	electionUUID, entityUUID, err := parseScopedIDs(electionID, positionID)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.positions[entityUUID]
	if !ok || p.ElectionID != electionUUID {
		return nil, fmt.Errorf("%w: position %s", common.ErrNotFound, positionID)
	}

	copied := *p
	return &copied, nil
}

func (r *InMemoryPositionRepository) GetByElection(electionID string) ([]*position.Position, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var positions []*position.Position
	for _, p := range r.store.positions {
		if p.ElectionID == electionUUID {
			copied := *p
			positions = append(positions, &copied)
		}
	}

	// Creation order, the order the ballot presents positions in.
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].CreatedAt.Before(positions[j].CreatedAt)
	})

	return positions, nil
}

func (r *InMemoryPositionRepository) Update(p *position.Position) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("position validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.positions[p.ID]
	if !ok || existing.ElectionID != p.ElectionID {
		return fmt.Errorf("%w: position %s", common.ErrNotFound, p.ID)
	}

	existing.Name = p.Name
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryPositionRepository) Delete(electionID, positionID string) error {
	electionUUID, entityUUID, err := parseScopedIDs(electionID, positionID)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.positions[entityUUID]
	if !ok || p.ElectionID != electionUUID {
		return fmt.Errorf("%w: position %s", common.ErrNotFound, positionID)
	}

	delete(r.store.positions, entityUUID)

	for candidateID, c := range r.store.candidates {
		if c.PositionID == entityUUID {
			delete(r.store.candidates, candidateID)
		}
	}

	return nil
}

// InMemoryCandidateRepository implements CandidateRepository over a Store.
type InMemoryCandidateRepository struct {
	store *Store
}

// NewCandidateRepository creates an in-memory candidate repository.
func NewCandidateRepository(store *Store) *InMemoryCandidateRepository {
	return &InMemoryCandidateRepository{store: store}
}

func (r *InMemoryCandidateRepository) Create(c *position.Candidate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copied := *c
	r.store.candidates[c.ID] = &copied
	return nil
}

func (r *InMemoryCandidateRepository) GetByID(electionID, candidateID string) (*position.Candidate, error) {
	electionUUID, entityUUID, err := parseScopedIDs(electionID, candidateID)
	if err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.candidates[entityUUID]
	if !ok || c.ElectionID != electionUUID {
		return nil, fmt.Errorf("%w: candidate %s", common.ErrNotFound, candidateID)
	}

	copied := *c
	return &copied, nil
}

func (r *InMemoryCandidateRepository) GetByElection(electionID string) ([]*position.Candidate, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var candidates []*position.Candidate
	for _, c := range r.store.candidates {
		if c.ElectionID == electionUUID {
			copied := *c
			candidates = append(candidates, &copied)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	return candidates, nil
}

func (r *InMemoryCandidateRepository) Update(c *position.Candidate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.candidates[c.ID]
	if !ok || existing.ElectionID != c.ElectionID {
		return fmt.Errorf("%w: candidate %s", common.ErrNotFound, c.ID)
	}

	existing.DisplayName = c.DisplayName
	existing.Party = c.Party
	existing.PositionID = c.PositionID
	existing.GroupID = c.GroupID
	existing.ImageURL = c.ImageURL
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryCandidateRepository) Delete(electionID, candidateID string) error {
	electionUUID, entityUUID, err := parseScopedIDs(electionID, candidateID)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.candidates[entityUUID]
	if !ok || c.ElectionID != electionUUID {
		return fmt.Errorf("%w: candidate %s", common.ErrNotFound, candidateID)
	}

	delete(r.store.candidates, entityUUID)
	return nil
}

// parseScopedIDs parses an (election, entity) ID pair.
func parseScopedIDs(electionID, entityID string) (uuid.UUID, uuid.UUID, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}
	entityUUID, err := uuid.Parse(entityID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: invalid ID format", common.ErrNotFound)
	}
	return electionUUID, entityUUID, nil
}
