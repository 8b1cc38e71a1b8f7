package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/organizer"
	"github.com/justCallMeJeg/eboto/internal/logger"
)

// PostgresOrganizerRepository implements OrganizerRepository using GORM
type PostgresOrganizerRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewOrganizerRepository creates a new PostgreSQL organizer repository
func NewOrganizerRepository(db *gorm.DB) *PostgresOrganizerRepository {
	return &PostgresOrganizerRepository{
		db:  db,
		log: logger.Repository("organizer"),
	}
}

func (r *PostgresOrganizerRepository) Create(o *organizer.Organizer) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("organizer validation failed: %w", err)
	}

	if err := r.db.Create(o).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("duplicate organizer email", "email", o.Email)
			return common.NewValidationError("email", "An account with this email already exists.")
		}
		r.log.Error("failed to create organizer", "error", err)
		return fmt.Errorf("%w: failed to create organizer: %v", common.ErrStorage, err)
	}

	r.log.Info("organizer created", "organizer_id", o.ID)
	return nil
}

func (r *PostgresOrganizerRepository) GetByID(id string) (*organizer.Organizer, error) {
	organizerID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid organizer ID format", common.ErrNotFound)
	}

	var o organizer.Organizer
	if err := r.db.First(&o, "id = ?", organizerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organizer %s", common.ErrNotFound, id)
		}
		r.log.Error("failed to retrieve organizer", "organizer_id", id, "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve organizer: %v", common.ErrStorage, err)
	}

	return &o, nil
}

func (r *PostgresOrganizerRepository) GetByEmail(email string) (*organizer.Organizer, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var o organizer.Organizer
	if err := r.db.Where("email = ?", normalized).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organizer %s", common.ErrNotFound, normalized)
		}
		r.log.Error("failed to retrieve organizer by email", "error", err)
		return nil, fmt.Errorf("%w: failed to retrieve organizer: %v", common.ErrStorage, err)
	}

	return &o, nil
}

func (r *PostgresOrganizerRepository) UpdatePassword(id, passwordHash string) error {
	organizerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid organizer ID format", common.ErrNotFound)
	}

	result := r.db.Model(&organizer.Organizer{}).
		Where("id = ?", organizerID).
		Update("password_hash", passwordHash)

	if result.Error != nil {
		r.log.Error("failed to update organizer password", "organizer_id", id, "error", result.Error)
		return fmt.Errorf("%w: failed to update password: %v", common.ErrStorage, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: organizer %s", common.ErrNotFound, id)
	}

	r.log.Info("organizer password updated", "organizer_id", id)
	return nil
}
