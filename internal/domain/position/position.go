package position

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Position is a contested seat within an election. Candidates compete for
// exactly one position.
type Position struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ElectionID uuid.UUID `json:"election_id" gorm:"type:uuid;not null"`
	Name       string    `json:"name" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Position) TableName() string {
	return "positions"
}

// BeforeCreate sets a UUID before creating the record
func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewPosition creates a position belonging to an election.
func NewPosition(electionID uuid.UUID, name string) *Position {
	return &Position{
		ID:         uuid.New(),
		ElectionID: electionID,
		Name:       name,
		CreatedAt:  time.Now(),
	}
}

// Validate checks if the position data is valid
func (p *Position) Validate() error {
	if p.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
