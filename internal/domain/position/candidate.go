package position

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Candidate is an option a voter may select for a position. A nil GroupID
// makes the candidate visible to every voter; a non-nil GroupID restricts
// visibility to voters of that group.
type Candidate struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ElectionID  uuid.UUID  `json:"election_id" gorm:"type:uuid;not null"`
	PositionID  uuid.UUID  `json:"position_id" gorm:"type:uuid;not null"`
	GroupID     *uuid.UUID `json:"group_id" gorm:"type:uuid"`
	DisplayName string     `json:"display_name" gorm:"not null"`
	Party       string     `json:"party" gorm:"not null"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate sets a UUID before creating the record
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewCandidate creates a candidate for a position in an election.
func NewCandidate(electionID, positionID uuid.UUID, displayName, party string, groupID *uuid.UUID) *Candidate {
	return &Candidate{
		ID:          uuid.New(),
		ElectionID:  electionID,
		PositionID:  positionID,
		GroupID:     groupID,
		DisplayName: displayName,
		Party:       party,
		CreatedAt:   time.Now(),
	}
}

// EligibleFor reports whether a voter with the given group may see and
// select this candidate. Group-less candidates are eligible for everyone.
func (c *Candidate) EligibleFor(voterGroupID *uuid.UUID) bool {
	if c.GroupID == nil {
		return true
	}
	return voterGroupID != nil && *voterGroupID == *c.GroupID
}

// Validate checks if the candidate data is valid
func (c *Candidate) Validate() error {
	if c.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if c.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if c.DisplayName == "" {
		return fmt.Errorf("display_name is required")
	}
	if c.Party == "" {
		return fmt.Errorf("party is required")
	}
	return nil
}
