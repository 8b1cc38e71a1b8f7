package voter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Voter represents a person eligible to submit exactly one ballot in a
// given election. The (election_id, email) pair is unique; emails are
// always stored lowercased so lookups are case-insensitive.
type Voter struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ElectionID uuid.UUID  `json:"election_id" gorm:"type:uuid;not null"`
	Email      string     `json:"email" gorm:"not null"`
	GroupID    *uuid.UUID `json:"group_id" gorm:"type:uuid"`
	HasVoted   bool       `json:"has_voted" gorm:"not null;default:false"`
	VotedAt    *time.Time `json:"voted_at"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Voter) TableName() string {
	return "voters"
}

// BeforeCreate sets a UUID before creating the record
func (v *Voter) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address. Registration and
// lookup both go through this so mismatched case still matches.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewVoter creates a voter for an election with a normalized email.
func NewVoter(electionID uuid.UUID, email string, groupID *uuid.UUID) *Voter {
	return &Voter{
		ID:         uuid.New(),
		ElectionID: electionID,
		Email:      NormalizeEmail(email),
		GroupID:    groupID,
		HasVoted:   false,
		CreatedAt:  time.Now(),
	}
}

// MarkVoted flips has_voted and stamps voted_at. The flag only ever moves
// false -> true; the repository enforces the same invariant with a
// conditional update so two concurrent submissions cannot both win.
func (v *Voter) MarkVoted(at time.Time) error {
	if v.HasVoted {
		return fmt.Errorf("voter %s has already voted", v.ID)
	}
	v.HasVoted = true
	v.VotedAt = &at
	return nil
}

// Validate checks if the voter data is valid
func (v *Voter) Validate() error {
	if v.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if v.Email == "" {
		return fmt.Errorf("email is required")
	}
	if v.Email != NormalizeEmail(v.Email) {
		return fmt.Errorf("email must be normalized before persisting")
	}
	return nil
}
