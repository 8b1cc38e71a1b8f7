package postgres

import (
	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/group"
	"github.com/justCallMeJeg/eboto/internal/domain/organizer"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
)

// ElectionRepository defines persistence operations for elections.
type ElectionRepository interface {
	Create(e *election.Election) error
	GetByID(id string) (*election.Election, error)
	GetByOwner(ownerID string) ([]*election.Election, error)
	// UpdateStatus transitions the election from one status to another.
	// The update is conditional on the current status so a concurrent
	// transition cannot be applied twice; zero matched rows returns
	// common.ErrInvalidTransition.
	UpdateStatus(electionID string, from, to election.Status) error
	Delete(id string) error
}

// OrganizerRepository defines persistence operations for organizer accounts.
type OrganizerRepository interface {
	Create(o *organizer.Organizer) error
	GetByID(id string) (*organizer.Organizer, error)
	GetByEmail(email string) (*organizer.Organizer, error)
	UpdatePassword(id, passwordHash string) error
}

// VoterRepository defines persistence operations for the voter registry.
// Create and Delete maintain the election's denormalized voter_count in
// the same transaction with an atomic counter expression.
type VoterRepository interface {
	Create(v *voter.Voter) error
	GetByID(electionID, voterID string) (*voter.Voter, error)
	GetByEmail(electionID, email string) (*voter.Voter, error)
	GetByElection(electionID string) ([]*voter.Voter, error)
	Update(v *voter.Voter) error
	Delete(electionID, voterID string) error
}

// GroupRepository defines persistence operations for voter groups.
type GroupRepository interface {
	Create(g *group.Group) error
	GetByID(electionID, groupID string) (*group.Group, error)
	GetByElection(electionID string) ([]*group.Group, error)
	Update(g *group.Group) error
	Delete(electionID, groupID string) error
}

// PositionRepository defines persistence operations for positions.
type PositionRepository interface {
	Create(p *position.Position) error
	GetByID(electionID, positionID string) (*position.Position, error)
	GetByElection(electionID string) ([]*position.Position, error)
	Update(p *position.Position) error
	Delete(electionID, positionID string) error
}

// CandidateRepository defines persistence operations for candidates.
type CandidateRepository interface {
	Create(c *position.Candidate) error
	GetByID(electionID, candidateID string) (*position.Candidate, error)
	GetByElection(electionID string) ([]*position.Candidate, error)
	Update(c *position.Candidate) error
	Delete(electionID, candidateID string) error
}

// BallotRepository defines persistence operations for submitted ballots.
type BallotRepository interface {
	// Submit persists the ballot entries and flips the voter's has_voted
	// flag as one atomic unit. The flag update is a compare-and-set on
	// has_voted = false; losing the race rolls everything back and
	// returns common.ErrAlreadyVoted.
	Submit(electionID, voterID string, entries []*ballot.Entry) error
	GetByElection(electionID string) ([]*ballot.Entry, error)
	CountDistinctVoters(electionID string) (int64, error)
}
