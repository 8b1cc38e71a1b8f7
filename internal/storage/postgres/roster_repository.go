package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/group"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/logger"
)

// PostgresGroupRepository implements GroupRepository using GORM
type PostgresGroupRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewGroupRepository creates a new PostgreSQL group repository
func NewGroupRepository(db *gorm.DB) *PostgresGroupRepository {
	return &PostgresGroupRepository{
		db:  db,
		log: logger.Repository("group"),
	}
}

func (r *PostgresGroupRepository) Create(g *group.Group) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("group validation failed: %w", err)
	}

	if err := r.db.Create(g).Error; err != nil {
		r.log.Error("failed to create group", "error", err, "election_id", g.ElectionID)
		return fmt.Errorf("%w: failed to create group: %v", common.ErrStorage, err)
	}

	r.log.Info("group created", "group_id", g.ID, "election_id", g.ElectionID)
	return nil
}

func (r *PostgresGroupRepository) GetByID(electionID, groupID string) (*group.Group, error) {
	electionUUID, groupUUID, err := parseScopedIDs(electionID, groupID)
	if err != nil {
		return nil, err
	}

	var g group.Group
	if err := r.db.Where("id = ? AND election_id = ?", groupUUID, electionUUID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: group %s", common.ErrNotFound, groupID)
		}
		return nil, fmt.Errorf("%w: failed to retrieve group: %v", common.ErrStorage, err)
	}

	return &g, nil
}

func (r *PostgresGroupRepository) GetByElection(electionID string) ([]*group.Group, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	var groups []*group.Group
	if err := r.db.Where("election_id = ?", electionUUID).Order("created_at DESC").Find(&groups).Error; err != nil {
		r.log.Error("failed to retrieve groups", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve groups: %v", common.ErrStorage, err)
	}

	return groups, nil
}

func (r *PostgresGroupRepository) Update(g *group.Group) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("group validation failed: %w", err)
	}

	result := r.db.Model(&group.Group{}).
		Where("id = ? AND election_id = ?", g.ID, g.ElectionID).
		Updates(map[string]interface{}{"name": g.Name, "updated_at": time.Now().UTC()})

	if result.Error != nil {
		return fmt.Errorf("%w: failed to update group: %v", common.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: group %s", common.ErrNotFound, g.ID)
	}

	return nil
}

func (r *PostgresGroupRepository) Delete(electionID, groupID string) error {
	electionUUID, groupUUID, err := parseScopedIDs(electionID, groupID)
	if err != nil {
		return err
	}

	result := r.db.Delete(&group.Group{}, "id = ? AND election_id = ?", groupUUID, electionUUID)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to delete group: %v", common.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: group %s", common.ErrNotFound, groupID)
	}

	r.log.Info("group deleted", "group_id", groupID, "election_id", electionID)
	return nil
}

// PostgresPositionRepository implements PositionRepository using GORM
type PostgresPositionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPositionRepository creates a new PostgreSQL position repository
func NewPositionRepository(db *gorm.DB) *PostgresPositionRepository {
	return &PostgresPositionRepository{
		db:  db,
		log: logger.Repository("position"),
	}
}

func (r *PostgresPositionRepository) Create(p *position.Position) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("position validation failed: %w", err)
	}

	if err := r.db.Create(p).Error; err != nil {
		r.log.Error("failed to create position", "error", err, "election_id", p.ElectionID)
		return fmt.Errorf("%w: failed to create position: %v", common.ErrStorage, err)
	}

	r.log.Info("position created", "position_id", p.ID, "election_id", p.ElectionID)
	return nil
}

func (r *PostgresPositionRepository) GetByID(electionID, positionID string) (*position.Position, error) {
	electionUUID, positionUUID, err := parseScopedIDs(electionID, positionID)
	if err != nil {
		return nil, err
	}

	var p position.Position
	if err := r.db.Where("id = ? AND election_id = ?", positionUUID, electionUUID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: position %s", common.ErrNotFound, positionID)
		}
		return nil, fmt.Errorf("%w: failed to retrieve position: %v", common.ErrStorage, err)
	}

	return &p, nil
}

// GetByElection returns positions in creation order, the order the ballot
// presents them in.
func (r *PostgresPositionRepository) GetByElection(electionID string) ([]*position.Position, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	var positions []*position.Position
	if err := r.db.Where("election_id = ?", electionUUID).Order("created_at ASC").Find(&positions).Error; err != nil {
		r.log.Error("failed to retrieve positions", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve positions: %v", common.ErrStorage, err)
	}

	return positions, nil
}

func (r *PostgresPositionRepository) Update(p *position.Position) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("position validation failed: %w", err)
	}

	result := r.db.Model(&position.Position{}).
		Where("id = ? AND election_id = ?", p.ID, p.ElectionID).
		Updates(map[string]interface{}{"name": p.Name, "updated_at": time.Now().UTC()})

	if result.Error != nil {
		return fmt.Errorf("%w: failed to update position: %v", common.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: position %s", common.ErrNotFound, p.ID)
	}

	return nil
}

func (r *PostgresPositionRepository) Delete(electionID, positionID string) error {
	electionUUID, positionUUID, err := parseScopedIDs(electionID, positionID)
	if err != nil {
		return err
	}

	result := r.db.Delete(&position.Position{}, "id = ? AND election_id = ?", positionUUID, electionUUID)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to delete position: %v", common.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: position %s", common.ErrNotFound, positionID)
	}

	r.log.Info("position deleted", "position_id", positionID, "election_id", electionID)
	return nil
}

// PostgresCandidateRepository implements CandidateRepository using GORM
type PostgresCandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewCandidateRepository creates a new PostgreSQL candidate repository
func NewCandidateRepository(db *gorm.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

func (r *PostgresCandidateRepository) Create(c *position.Candidate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	if err := r.db.Create(c).Error; err != nil {
		r.log.Error("failed to create candidate", "error", err, "election_id", c.ElectionID)
		return fmt.Errorf("%w: failed to create candidate: %v", common.ErrStorage, err)
	}

	r.log.Info("candidate created", "candidate_id", c.ID, "position_id", c.PositionID)
	return nil
}

func (r *PostgresCandidateRepository) GetByID(electionID, candidateID string) (*position.Candidate, error) {
	electionUUID, candidateUUID, err := parseScopedIDs(electionID, candidateID)
	if err != nil {
		return nil, err
	}

	var c position.Candidate
	if err := r.db.Where("id = ? AND election_id = ?", candidateUUID, electionUUID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: candidate %s", common.ErrNotFound, candidateID)
		}
		return nil, fmt.Errorf("%w: failed to retrieve candidate: %v", common.ErrStorage, err)
	}

	return &c, nil
}

func (r *PostgresCandidateRepository) GetByElection(electionID string) ([]*position.Candidate, error) {
	electionUUID, err := uuid.Parse(electionID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid election ID format", common.ErrNotFound)
	}

	var candidates []*position.Candidate
	if err := r.db.Where("election_id = ?", electionUUID).Order("created_at DESC").Find(&candidates).Error; err != nil {
		r.log.Error("failed to retrieve candidates", "election_id", electionID, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve candidates: %v", common.ErrStorage, err)
	}

	return candidates, nil
}

func (r *PostgresCandidateRepository) Update(c *position.Candidate) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	result := r.db.Model(&position.Candidate{}).
		Where("id = ? AND election_id = ?", c.ID, c.ElectionID).
		Updates(map[string]interface{}{
			"display_name": c.DisplayName,
			"party":        c.Party,
			"position_id":  c.PositionID,
			"group_id":     c.GroupID,
			"image_url":    c.ImageURL,
			"updated_at":   time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("%w: failed to update candidate: %v", common.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: candidate %s", common.ErrNotFound, c.ID)
	}

	return nil
}

func (r *PostgresCandidateRepository) Delete(electionID, candidateID string) error {
	electionUUID, candidateUUID, err := parseScopedIDs(electionID, candidateID)
	if err != nil {
		return err
	}

	result := r.db.Delete(&position.Candidate{}, "id = ? AND election_id = ?", candidateUUID, electionUUID)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to delete candidate: %v", common.ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: candidate %s", common.ErrNotFound, candidateID)
	}

	r.log.Info("candidate deleted", "candidate_id", candidateID, "election_id", electionID)
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
