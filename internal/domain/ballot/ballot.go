package ballot

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is a single (position, candidate) selection of a voter's ballot.
// A submitted ballot is the set of its entries; an empty set is a valid
// submission. The unique index on (voter_id, position_id) enforces at most
// one selection per position.
type Entry struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ElectionID  uuid.UUID `json:"election_id" gorm:"type:uuid;not null"`
	VoterID     uuid.UUID `json:"voter_id" gorm:"type:uuid;not null"`
	PositionID  uuid.UUID `json:"position_id" gorm:"type:uuid;not null"`
	CandidateID uuid.UUID `json:"candidate_id" gorm:"type:uuid;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Entry) TableName() string {
	return "ballot_entries"
}

// BeforeCreate sets a UUID before creating the record
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Validate checks if the entry data is valid
func (e *Entry) Validate() error {
	if e.ElectionID == uuid.Nil {
		return fmt.Errorf("election_id is required")
	}
	if e.VoterID == uuid.Nil {
		return fmt.Errorf("voter_id is required")
	}
	if e.PositionID == uuid.Nil {
		return fmt.Errorf("position_id is required")
	}
	if e.CandidateID == uuid.Nil {
		return fmt.Errorf("candidate_id is required")
	}
	return nil
}

// Selections maps position -> chosen candidate for one voter's ballot.
type Selections map[uuid.UUID]uuid.UUID

// NewEntries expands a selection map into ballot entry rows for a voter.
func NewEntries(electionID, voterID uuid.UUID, selections Selections) []*Entry {
	entries := make([]*Entry, 0, len(selections))
	now := time.Now()
	for positionID, candidateID := range selections {
		entries = append(entries, &Entry{
			ID:          uuid.New(),
			ElectionID:  electionID,
			VoterID:     voterID,
			PositionID:  positionID,
			CandidateID: candidateID,
			CreatedAt:   now,
		})
	}
	return entries
}
