package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
	"github.com/justCallMeJeg/eboto/internal/validation"
)

// VoterService manages the voter registry of an election. All mutating
// operations are owner-only.
type VoterService struct {
	elections postgres.ElectionRepository
	voters    postgres.VoterRepository
	groups    postgres.GroupRepository
	log       *log.Logger
}

// NewVoterService creates a voter service.
func NewVoterService(elections postgres.ElectionRepository, voters postgres.VoterRepository, groups postgres.GroupRepository) *VoterService {
	return &VoterService{
		elections: elections,
		voters:    voters,
		groups:    groups,
		log:       logger.Service("voter"),
	}
}

// Register adds a voter to the election's registry. The email is
// lowercased before anything else; a duplicate registration surfaces as
// a field error on email.
func (s *VoterService) Register(requesterID, electionID, email, groupID string) (*voter.Voter, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	groupUUID, fieldErrs := s.validateVoterInput(electionID, email, groupID)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	electionUUID, _ := uuid.Parse(electionID)
	v := voter.NewVoter(electionUUID, email, groupUUID)

	if err := s.voters.Create(v); err != nil {
		if errors.Is(err, common.ErrDuplicateVoter) {
			return nil, common.NewValidationError("email", "This email is already registered for this election.")
		}
		return nil, err
	}

	s.log.Info("voter registered", "voter_id", v.ID, "election_id", electionID)
	return v, nil
}

// Get returns a voter of the election.
func (s *VoterService) Get(requesterID, electionID, voterID string) (*voter.Voter, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}
	return s.voters.GetByID(electionID, voterID)
}

// List returns the election's full voter registry.
func (s *VoterService) List(requesterID, electionID string) ([]*voter.Voter, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}
	return s.voters.GetByElection(electionID)
}

// Update changes a voter's email or group. The has_voted flag is never
// writable through this path.
func (s *VoterService) Update(requesterID, electionID, voterID, email, groupID string) (*voter.Voter, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	groupUUID, fieldErrs := s.validateVoterInput(electionID, email, groupID)
	if fieldErrs != nil {
		return nil, fieldErrs
	}

	v, err := s.voters.GetByID(electionID, voterID)
	if err != nil {
		return nil, err
	}

	v.Email = voter.NormalizeEmail(email)
	v.GroupID = groupUUID

	if err := s.voters.Update(v); err != nil {
		return nil, err
	}

	s.log.Info("voter updated", "voter_id", voterID, "election_id", electionID)
	return v, nil
}

// Delete removes a voter from the registry, decrementing the election's
// voter count in the same transaction.
func (s *VoterService) Delete(requesterID, electionID, voterID string) error {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return err
	}

	if err := s.voters.Delete(electionID, voterID); err != nil {
		return err
	}

	s.log.Info("voter deleted", "voter_id", voterID, "election_id", electionID)
	return nil
}

func (s *VoterService) requireOwner(requesterID, electionID string) error {
	e, err := s.elections.GetByID(electionID)
	if err != nil {
		return err
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil || !e.IsOwner(requesterUUID) {
		return fmt.Errorf("%w: election %s", common.ErrUnauthorized, electionID)
	}

	return nil
}

// validateVoterInput validates email and optional group, resolving the
// group against the election's roster when given.
func (s *VoterService) validateVoterInput(electionID, email, groupID string) (*uuid.UUID, *common.ValidationError) {
	v := validation.VoterValidation{}
	fieldErrs := &common.ValidationError{}

	if err := v.ValidateVoterEmail(email); err != nil {
		fieldErrs.Add("email", err.Error())
	}
	if err := v.ValidateGroupID(groupID); err != nil {
		fieldErrs.Add("group_id", err.Error())
	}
	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	if groupID == "" {
		return nil, nil
	}

	g, err := s.groups.GetByID(electionID, groupID)
	if err != nil {
		return nil, common.NewValidationError("group_id", "Group does not exist in this election.")
	}

	return &g.ID, nil
}
