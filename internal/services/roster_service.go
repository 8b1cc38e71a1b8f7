package services

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/group"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/media"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
	"github.com/justCallMeJeg/eboto/internal/validation"
)

// RosterService manages an election's groups, positions, and candidates.
// All operations are owner-only.
type RosterService struct {
	elections  postgres.ElectionRepository
	groups     postgres.GroupRepository
	positions  postgres.PositionRepository
	candidates postgres.CandidateRepository
	media      *media.Store
	log        *log.Logger
}

// NewRosterService creates a roster service. The media store may be nil
// when no object store is configured; portrait uploads then fail with a
// field error instead of a broken client.
func NewRosterService(
	elections postgres.ElectionRepository,
	groups postgres.GroupRepository,
	positions postgres.PositionRepository,
	candidates postgres.CandidateRepository,
	mediaStore *media.Store,
) *RosterService {
	return &RosterService{
		elections:  elections,
		groups:     groups,
		positions:  positions,
		candidates: candidates,
		media:      mediaStore,
		log:        logger.Service("roster"),
	}
}

func (s *RosterService) requireOwner(requesterID, electionID string) error {
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

// CreateGroup adds a voter group to the election.
func (s *RosterService) CreateGroup(requesterID, electionID, name string) (*group.Group, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	if err := (validation.GroupValidation{}).ValidateName(name); err != nil {
		return nil, common.NewValidationError("name", err.Error())
	}

	electionUUID, _ := uuid.Parse(electionID)
	g := group.NewGroup(electionUUID, name)
	if err := s.groups.Create(g); err != nil {
		return nil, err
	}

	return g, nil
}

// ListGroups returns the election's groups.
func (s *RosterService) ListGroups(requesterID, electionID string) ([]*group.Group, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}
	return s.groups.GetByElection(electionID)
}

// UpdateGroup renames a group.
func (s *RosterService) UpdateGroup(requesterID, electionID, groupID, name string) (*group.Group, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	if err := (validation.GroupValidation{}).ValidateName(name); err != nil {
		return nil, common.NewValidationError("name", err.Error())
	}

	g, err := s.groups.GetByID(electionID, groupID)
	if err != nil {
		return nil, err
	}

	g.Name = name
	if err := s.groups.Update(g); err != nil {
		return nil, err
	}

	return g, nil
}

// DeleteGroup removes a group. Voters and candidates that referenced it
// fall back to no group.
func (s *RosterService) DeleteGroup(requesterID, electionID, groupID string) error {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return err
	}
	return s.groups.Delete(electionID, groupID)
}

// CreatePosition adds a position to the election's ballot.
func (s *RosterService) CreatePosition(requesterID, electionID, name string) (*position.Position, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	if err := (validation.PositionValidation{}).ValidateName(name); err != nil {
		return nil, common.NewValidationError("name", err.Error())
	}

	electionUUID, _ := uuid.Parse(electionID)
	p := position.NewPosition(electionUUID, name)
	if err := s.positions.Create(p); err != nil {
		return nil, err
	}

	return p, nil
}

// ListPositions returns the election's positions in ballot order.
func (s *RosterService) ListPositions(requesterID, electionID string) ([]*position.Position, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}
	return s.positions.GetByElection(electionID)
}

// UpdatePosition renames a position.
func (s *RosterService) UpdatePosition(requesterID, electionID, positionID, name string) (*position.Position, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	if err := (validation.PositionValidation{}).ValidateName(name); err != nil {
		return nil, common.NewValidationError("name", err.Error())
	}

	p, err := s.positions.GetByID(electionID, positionID)
	if err != nil {
		return nil, err
	}

	p.Name = name
	if err := s.positions.Update(p); err != nil {
		return nil, err
	}

	return p, nil
}

// DeletePosition removes a position and its candidates.
func (s *RosterService) DeletePosition(requesterID, electionID, positionID string) error {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return err
	}
	return s.positions.Delete(electionID, positionID)
}

// CandidateInput carries the writable candidate fields.
type CandidateInput struct {
	PositionID  string
	GroupID     string
	DisplayName string
	Party       string
	ImageURL    string
}

func (s *RosterService) validateCandidateInput(electionID string, in CandidateInput) (positionID uuid.UUID, groupID *uuid.UUID, errs error) {
	v := validation.CandidateValidation{}
	fieldErrs := &common.ValidationError{}

	if err := v.ValidateDisplayName(in.DisplayName); err != nil {
		fieldErrs.Add("display_name", err.Error())
	}
	if err := v.ValidateParty(in.Party); err != nil {
		fieldErrs.Add("party", err.Error())
	}
	if err := v.ValidateImageURL(in.ImageURL); err != nil {
		fieldErrs.Add("image_url", err.Error())
	}
	if fieldErrs.HasErrors() {
		return uuid.Nil, nil, fieldErrs
	}

	p, err := s.positions.GetByID(electionID, in.PositionID)
	if err != nil {
		return uuid.Nil, nil, common.NewValidationError("position_id", "Position does not exist in this election.")
	}

	if in.GroupID != "" {
		g, err := s.groups.GetByID(electionID, in.GroupID)
		if err != nil {
			return uuid.Nil, nil, common.NewValidationError("group_id", "Group does not exist in this election.")
		}
		groupID = &g.ID
	}

	return p.ID, groupID, nil
}

// CreateCandidate adds a candidate for a position.
func (s *RosterService) CreateCandidate(requesterID, electionID string, in CandidateInput) (*position.Candidate, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	positionID, groupID, err := s.validateCandidateInput(electionID, in)
	if err != nil {
		return nil, err
	}

	electionUUID, _ := uuid.Parse(electionID)
	c := position.NewCandidate(electionUUID, positionID, in.DisplayName, in.Party, groupID)
	c.ImageURL = in.ImageURL

	if err := s.candidates.Create(c); err != nil {
		return nil, err
	}

	return c, nil
}

// ListCandidates returns the election's candidates.
func (s *RosterService) ListCandidates(requesterID, electionID string) ([]*position.Candidate, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}
	return s.candidates.GetByElection(electionID)
}

// UpdateCandidate replaces a candidate's writable fields.
func (s *RosterService) UpdateCandidate(requesterID, electionID, candidateID string, in CandidateInput) (*position.Candidate, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	positionID, groupID, err := s.validateCandidateInput(electionID, in)
	if err != nil {
		return nil, err
	}

	c, err := s.candidates.GetByID(electionID, candidateID)
	if err != nil {
		return nil, err
	}

	c.PositionID = positionID
	c.GroupID = groupID
	c.DisplayName = in.DisplayName
	c.Party = in.Party
	c.ImageURL = in.ImageURL

	if err := s.candidates.Update(c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCandidate removes a candidate.
func (s *RosterService) DeleteCandidate(requesterID, electionID, candidateID string) error {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return err
	}
	return s.candidates.Delete(electionID, candidateID)
}

// UploadPortrait stores a portrait image for a candidate and saves the
// resulting URL on the candidate record.
func (s *RosterService) UploadPortrait(ctx context.Context, requesterID, electionID, candidateID string, r io.Reader, size int64, contentType string) (*position.Candidate, error) {
	if err := s.requireOwner(requesterID, electionID); err != nil {
		return nil, err
	}

	if s.media == nil {
		return nil, common.NewValidationError("image", "Portrait uploads are not enabled on this server.")
	}

	c, err := s.candidates.GetByID(electionID, candidateID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.UploadPortrait(ctx, c.ElectionID, c.ID, r, size, contentType)
	if err != nil {
		return nil, err
	}

	c.ImageURL = url
	if err := s.candidates.Update(c); err != nil {
		return nil, err
	}

	s.log.Info("portrait attached", "candidate_id", candidateID)
	return c, nil
}
