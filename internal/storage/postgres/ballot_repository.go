package postgres

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/logger"
)

// PostgresBallotRepository implements BallotRepository using GORM
type PostgresBallotRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewBallotRepository creates a new PostgreSQL ballot repository
func NewBallotRepository(db *gorm.DB) *PostgresBallotRepository {
	return &PostgresBallotRepository{
		db:  db,
		log: logger.Repository("ballot"),
	}
}

// Submit writes the ballot entries and flips the voter's has_voted flag
// in one transaction. The flag update is conditional on has_voted = FALSE
// and its affected-row count is checked, so of two concurrent submissions
// exactly one commits; the loser rolls back, leaving no orphaned entries.
func (r *PostgresBallotRepository) Submit(electionID, voterID string, entries []*ballot.Entry) error {
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

	err = r.db.Transaction(func(tx *gorm.DB) error {
		// An empty selection set is a valid ballot; only the flag flips.
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&voter.Voter{}).
			Where("id = ? AND election_id = ? AND has_voted = ?", voterUUID, electionUUID, false).
			Updates(map[string]interface{}{
				"has_voted": true,
				"voted_at":  time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrAlreadyVoted
		}
		return nil
	})

	if err != nil {
		if err == common.ErrAlreadyVoted {
			r.log.Warn("concurrent or repeated ballot submission rejected", "voter_id", voterID, "election_id", electionID)
			return common.ErrAlreadyVoted
		}
		if isUniqueViolation(err) {
			// Duplicate (voter, position) rows mean a racing submission
			// got its entries in first.
			r.log.Warn("duplicate ballot entries rejected", "voter_id", voterID, "election_id", electionID)
			return common.ErrAlreadyVoted
		}
		r.log.Error("failed to submit ballot", "error", err, "voter_id", voterID, "election_id", electionID)
		return fmt.Errorf("%w: failed to submit ballot: %v", common.ErrStorage, err)
	}

	r.log.Info("ballot submitted", "voter_id", voterID, "election_id", electionID, "selections", len(entries))
	return nil
}

func (r *PostgresBallotRepository) GetByElection(electionID string) ([]*ballot.Entry, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	var entries []*ballot.Entry
	if err := r.db.Where("election_id = ?", electionUUID).Find(&entries).Error; err != nil {
		r.log.Error("failed to retrieve ballot entries", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve ballot entries: %v", common.ErrStorage, err)
	}

	return entries, nil
}

// CountDistinctVoters counts voters who have a committed ballot, which is
// the votes-cast figure used for turnout.
func (r *PostgresBallotRepository) CountDistinctVoters(electionID string) (int64, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	var count int64
	if err := r.db.Model(&voter.Voter{}).
		Where("election_id = ? AND has_voted = ?", electionUUID, true).
		Count(&count).Error; err != nil {
		r.log.Error("failed to count voted voters", "election_id", electionID, "error", err)
		return 0, fmt.Errorf("%w: failed to count voted voters: %v", common.ErrStorage, err)
	}

	return count, nil
}
