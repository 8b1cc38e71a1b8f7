package group

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group partitions the voters of an election. A candidate carrying a group
// reference is only visible to voters of that group.
type Group struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ElectionID uuid.UUID `json:"election_id" gorm:"type:uuid;not null"`
	Name       string    `json:"name" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName keeps the original schema's table name.
func (Group) TableName() string {
	return "usergroups"
}

// BeforeCreate sets a UUID before creating the record
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// NewGroup creates a group belonging to an election.
func NewGroup(electionID uuid.UUID, name string) *Group {
	return &Group{
		ID:         uuid.New(),
		ElectionID: electionID,
		Name:       name,
		CreatedAt:  time.Now(),
	}
}

// Validate checks if the group data is valid
func (g *Group) Validate() error {
	if g.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
