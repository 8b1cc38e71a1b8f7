package memory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/organizer"
)

// InMemoryOrganizerRepository implements OrganizerRepository over a Store.
type InMemoryOrganizerRepository struct {
	store *Store
}

// NewOrganizerRepository creates an in-memory organizer repository.
func NewOrganizerRepository(store *Store) *InMemoryOrganizerRepository {
	return &InMemoryOrganizerRepository{store: store}
}

func (r *InMemoryOrganizerRepository) Create(o *organizer.Organizer) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("organizer validation failed: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.organizers {
		if existing.Email == o.Email {
			return common.NewValidationError("email", "An account with this email already exists.")
		}
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	copied := *o
	r.store.organizers[o.ID] = &copied
	return nil
}

func (r *InMemoryOrganizerRepository) GetByID(id string) (*organizer.Organizer, error) {
	organizerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid organizer ID format", common.ErrNotFound)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, ok := r.store.organizers[organizerID]
	if !ok {
		return nil, fmt.Errorf("%w: organizer %s", common.ErrNotFound, id)
	}

	copied := *o
	return &copied, nil
}

func (r *InMemoryOrganizerRepository) GetByEmail(email string) (*organizer.Organizer, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, o := range r.store.organizers {
		if o.Email == normalized {
			copied := *o
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("%w: organizer %s", common.ErrNotFound, normalized)
}

func (r *InMemoryOrganizerRepository) UpdatePassword(id, passwordHash string) error {
	organizerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid organizer ID format", common.ErrNotFound)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.organizers[organizerID]
	if !ok {
		return fmt.Errorf("%w: organizer %s", common.ErrNotFound, id)
	}

	o.PasswordHash = passwordHash
	return nil
}
