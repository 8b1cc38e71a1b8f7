package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/logger"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresVoterRepository implements VoterRepository using GORM
type PostgresVoterRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewVoterRepository creates a new PostgreSQL voter repository
func NewVoterRepository(db *gorm.DB) *PostgresVoterRepository {
	return &PostgresVoterRepository{
		db:  db,
		log: logger.Repository("voter"),
	}
}

// Create inserts the voter and bumps the election's voter_count in one
// transaction. The counter update is a single SQL expression, never a
// read-modify-write.
func (r *PostgresVoterRepository) Create(v *voter.Voter) error {
	r.log.Debug("creating voter", "voter_id", v.ID, "election_id", v.ElectionID)

	if err := v.Validate(); err != nil {
		return fmt.Errorf("voter validation failed: %w", err)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		return tx.Model(&election.Election{}).
			Where("id = ?", v.ElectionID).
			UpdateColumn("voter_count", gorm.Expr("voter_count + ?", 1)).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("duplicate voter email", "election_id", v.ElectionID, "email", v.Email)
			return common.ErrDuplicateVoter
		}
		r.log.Error("failed to create voter", "error", err, "voter_id", v.ID)
		return fmt.Errorf("%w: failed to create voter: %v", common.ErrStorage, err)
	}

	r.log.Info("voter created", "voter_id", v.ID, "election_id", v.ElectionID)
	return nil
}

func (r *PostgresVoterRepository) GetByID(electionID, voterID string) (*voter.Voter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid voter ID format", common.ErrNotFound)
	}

	var v voter.Voter
	if err := r.db.Where("id = ? AND election_id = ?", voterUUID, electionUUID).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: voter %s in election %s", common.ErrNotFound, voterID, electionID)
		}
		r.log.Error("failed to retrieve voter", "voter_id", voterID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve voter: %v", common.ErrStorage, err)
	}

	return &v, nil
}

// GetByEmail looks a voter up by normalized email within an election.
func (r *PostgresVoterRepository) GetByEmail(electionID, email string) (*voter.Voter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	normalized := voter.NormalizeEmail(email)

	var v voter.Voter
	if err := r.db.Where("election_id = ? AND email = ?", electionUUID, normalized).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: voter %s in election %s", common.ErrNotFound, normalized, electionID)
		}
		r.log.Error("failed to retrieve voter by email", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve voter: %v", common.ErrStorage, err)
	}

	return &v, nil
}

func (r *PostgresVoterRepository) GetByElection(electionID string) ([]*voter.Voter, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	var voters []*voter.Voter
	if err := r.db.Where("election_id = ?", electionUUID).Order("created_at DESC").Find(&voters).Error; err != nil {
		r.log.Error("failed to retrieve voters", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve voters: %v", common.ErrStorage, err)
	}

	return voters, nil
}

func (r *PostgresVoterRepository) Update(v *voter.Voter) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("voter validation failed: %w", err)
	}

	result := r.db.Model(&voter.Voter{}).
		Where("id = ? AND election_id = ?", v.ID, v.ElectionID).
		Updates(map[string]interface{}{
			"email":    v.Email,
			"group_id": v.GroupID,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return common.ErrDuplicateVoter
		}
		r.log.Error("failed to update voter", "voter_id", v.ID, "error", result.Error)
		return fmt.Errorf("%w: failed to update voter: %v", common.ErrStorage, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: voter %s", common.ErrNotFound, v.ID)
	}

	return nil
}

// Delete removes the voter and decrements the election's voter_count in
// one transaction.
func (r *PostgresVoterRepository) Delete(electionID, voterID string) error {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}
	voterUUID, err := uuid.Parse(voterID)
	if err != nil {
		return fmt.Errorf("%w: invalid voter ID format", common.ErrNotFound)
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&voter.Voter{}, "id = ? AND election_id = ?", voterUUID, electionUUID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: voter %s", common.ErrNotFound, voterID)
		}
		return tx.Model(&election.Election{}).
			Where("id = ?", electionUUID).
			UpdateColumn("voter_count", gorm.Expr("voter_count - ?", 1)).Error
	})

	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		r.log.Error("failed to delete voter", "voter_id", voterID, "error", err)
		return fmt.Errorf("%w: failed to delete voter: %v", common.ErrStorage, err)
	}

	r.log.Info("voter deleted", "voter_id", voterID, "election_id", electionID)
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
