package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/logger"
)

// PostgresElectionRepository implements ElectionRepository using GORM
type PostgresElectionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewElectionRepository creates a new PostgreSQL election repository
func NewElectionRepository(db *gorm.DB) *PostgresElectionRepository {
	return &PostgresElectionRepository{
		db:  db,
		log: logger.Repository("election"),
	}
}

func (r *PostgresElectionRepository) Create(e *election.Election) error {
	r.log.Debug("creating election", "election_id", e.ID, "owner_id", e.OwnerID)

	if err := e.Validate(); err != nil {
		return fmt.Errorf("election validation failed: %w", err)
	}

	if err := r.db.Create(e).Error; err != nil {
		r.log.Error("failed to create election", "error", err, "election_id", e.ID)
		return fmt.Errorf("%w: failed to create election: %v", common.ErrStorage, err)
	}

	r.log.Info("election created", "election_id", e.ID, "name", e.Name)
	return nil
}

func (r *PostgresElectionRepository) GetByID(id string) (*election.Election, error) {
	electionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	var e election.Election
	if err := r.db.First(&e, "id = ?", electionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("election not found", "election_id", id)
			return nil, fmt.Errorf("%w: election %s", common.ErrNotFound, id)
		}
		r.log.Error("failed to retrieve election", "election_id", id, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve election: %v", common.ErrStorage, err)
	}

	return &e, nil
}

func (r *PostgresElectionRepository) GetByOwner(ownerID string) ([]*election.Election, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format: %w", err)
	}

	var elections []*election.Election
	if err := r.db.Where("owner_id = ?", ownerUUID).Order("created_at DESC").Find(&elections).Error; err != nil {
		r.log.Error("failed to retrieve elections by owner", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve elections: %v", common.ErrStorage, err)
	}

	return elections, nil
}

// UpdateStatus applies a conditional transition. The WHERE clause pins the
// current status, so two racing transitions cannot both match.
func (r *PostgresElectionRepository) UpdateStatus(electionID string, from, to election.Status) error {
	id, err := uuid.Parse(electionID)
	if err != nil {
		return fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	result := r.db.Model(&election.Election{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	if result.Error != nil {
		r.log.Error("failed to update election status", "election_id", electionID, "error", result.Error)
		return fmt.Errorf("%w: failed to update election status: %v", common.ErrStorage, result.Error)
	}

	if result.RowsAffected == 0 {
		r.log.Warn("election status transition rejected", "election_id", electionID, "from", from.Label(), "to", to.Label())
		return fmt.Errorf("%w: election is not in the %s state", common.ErrInvalidTransition, from.Label())
	}

	r.log.Info("election status updated", "election_id", electionID, "from", from.Label(), "to", to.Label())
	return nil
}

func (r *PostgresElectionRepository) Delete(id string) error {
	electionID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	result := r.db.Delete(&election.Election{}, "id = ?", electionID)
	if result.Error != nil {
		r.log.Error("failed to delete election", "election_id", id, "error", result.Error)
		return fmt.Errorf("%w: failed to delete election: %v", common.ErrStorage, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: election %s", common.ErrNotFound, id)
	}

	r.log.Info("election deleted", "election_id", id)
	return nil
}
