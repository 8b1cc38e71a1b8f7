package election

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
)

// Election represents a single vote-collection event with a bounded lifecycle.
type Election struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null"`
	Status      Status    `json:"status" gorm:"type:smallint;not null;default:0"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	VoterCount  int       `json:"voter_count" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Election) TableName() string {
	return "elections"
}

// BeforeCreate sets a UUID before creating the record
func (e *Election) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewElection creates a new election owned by the given organizer,
// starting in the Pre-Election state.
func NewElection(name, description string, ownerID uuid.UUID, startDate, endDate time.Time) *Election {
	return &Election{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Status:      StatusPreElection,
		StartDate:   startDate,
		EndDate:     endDate,
		CreatedAt:   time.Now(),
	}
}

// IsOwner checks if the given user ID owns this election.
func (e *Election) IsOwner(userID uuid.UUID) bool {
	return e.OwnerID == userID
}

// CanTransitionTo checks if the election can move to a new status.
// Transitions only run forward; Closed is terminal.
func (e *Election) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusPreElection:  {StatusOngoing},
		StatusOngoing:      {StatusPostElection},
		StatusPostElection: {StatusClosed},
		StatusClosed:       {},
	}

	allowed, exists := transitions[e.Status]
	if !exists {
		return false
	}

	return slices.Contains(allowed, newStatus)
}

// UpdateStatus applies the transition if it is valid.
func (e *Election) UpdateStatus(newStatus Status) error {
	if !e.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: cannot transition from %s to %s",
			common.ErrInvalidTransition, e.Status.Label(), newStatus.Label())
	}
	e.Status = newStatus
	return nil
}

// Validate checks if the election data is valid
func (e *Election) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("end_date must be after start_date")
	}
	return nil
}

// Status represents the lifecycle state of an election.
type Status byte

const (
	StatusPreElection Status = iota
	StatusOngoing
	StatusPostElection
	StatusClosed
)

// Label is the total mapping from lifecycle state to display string.
func (s Status) Label() string {
	switch s {
	case StatusPreElection:
		return "Pre-Election"
	case StatusOngoing:
		return "Ongoing"
	case StatusPostElection:
		return "Post-Election"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

func (s Status) String() string {
	return s.Label()
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.Label() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromLabel(str)
	if !valid {
		return fmt.Errorf("invalid election status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromLabel converts a display string back to a Status.
func StatusFromLabel(label string) (Status, bool) {
	switch label {
	case "Pre-Election":
		return StatusPreElection, true
	case "Ongoing":
		return StatusOngoing, true
	case "Post-Election":
		return StatusPostElection, true
	case "Closed":
		return StatusClosed, true
	default:
		return StatusPreElection, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusPreElection
		return nil
	}

	switch v := value.(type) {
	case int64:
		if v < 0 || v > int64(StatusClosed) {
			return fmt.Errorf("invalid election status value: %d", v)
		}
		*s = Status(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return int64(s), nil
}
