package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/realtime"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
)

// BallotService serves the voter-facing ballot: what a voter may vote on
// and the one-shot submission.
type BallotService struct {
	elections  postgres.ElectionRepository
	voters     postgres.VoterRepository
	positions  postgres.PositionRepository
	candidates postgres.CandidateRepository
	ballots    postgres.BallotRepository
	hub        *realtime.Hub
	log        *log.Logger
}

// NewBallotService creates a ballot service.
func NewBallotService(
	elections postgres.ElectionRepository,
	voters postgres.VoterRepository,
	positions postgres.PositionRepository,
	candidates postgres.CandidateRepository,
	ballots postgres.BallotRepository,
	hub *realtime.Hub,
) *BallotService {
	return &BallotService{
		elections:  elections,
		voters:     voters,
		positions:  positions,
		candidates: candidates,
		ballots:    ballots,
		hub:        hub,
		log:        logger.Service("ballot"),
	}
}

// BallotPosition is one position with the candidates the voter may pick from.
type BallotPosition struct {
	ID         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	Candidates []*position.Candidate `json:"candidates"`
}

// EligibleBallot is what a voter sees for an election. An unregistered
// email still gets a well-formed result with Registered=false; that case
// is not an error.
type EligibleBallot struct {
	ElectionID   uuid.UUID        `json:"election_id"`
	ElectionName string           `json:"election_name"`
	Status       election.Status  `json:"status"`
	Registered   bool             `json:"registered"`
	Voter        *voter.Voter     `json:"voter,omitempty"`
	Message      string           `json:"message,omitempty"`
	Positions    []BallotPosition `json:"positions"`
}

// GetEligibleBallot resolves the ballot a voter identified by email may
// cast in the election. The email is lowercased before lookup. Positions
// come back empty when the voter is unregistered, has already voted, or
// the election is not Ongoing; candidates are filtered to those open to
// everyone plus those restricted to the voter's group, and positions
// with no remaining candidates are dropped.
func (s *BallotService) GetEligibleBallot(electionID, voterEmail string) (*EligibleBallot, error) {
	e, err := s.elections.GetByID(electionID)
	if err != nil {
		return nil, err
	}

	result := &EligibleBallot{
		ElectionID:   e.ID,
		ElectionName: e.Name,
		Status:       e.Status,
		Positions:    []BallotPosition{},
	}

	v, err := s.voters.GetByEmail(electionID, voter.NormalizeEmail(voterEmail))
	if err != nil {
		// Only a missing row means unregistered; a storage failure must
		// not masquerade as one.
		if errors.Is(err, common.ErrNotFound) {
			result.Registered = false
			result.Message = "This email is not registered to vote in this election."
			return result, nil
		}
		return nil, err
	}

	result.Registered = true
	result.Voter = v

	if v.HasVoted {
		result.Message = "You have already cast your ballot in this election."
		return result, nil
	}
	if e.Status != election.StatusOngoing {
		result.Message = fmt.Sprintf("This election is %s; voting is not open.", e.Status.Label())
		return result, nil
	}

	positions, err := s.positions.GetByElection(electionID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates.GetByElection(electionID)
	if err != nil {
		return nil, err
	}

	byPosition := make(map[uuid.UUID][]*position.Candidate)
	for _, c := range candidates {
		if c.EligibleFor(v.GroupID) {
			byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
		}
	}

	for _, p := range positions {
		eligible := byPosition[p.ID]
		if len(eligible) == 0 {
			continue
		}
		result.Positions = append(result.Positions, BallotPosition{
			ID:         p.ID,
			Name:       p.Name,
			Candidates: eligible,
		})
	}

	return result, nil
}

// GetBallotForVoter resolves the ballot for an authenticated voter by ID.
func (s *BallotService) GetBallotForVoter(electionID, voterID string) (*EligibleBallot, error) {
	v, err := s.voters.GetByID(electionID, voterID)
	if err != nil {
		return nil, err
	}
	return s.GetEligibleBallot(electionID, v.Email)
}

// SubmitBallot records a voter's selections as their one and only ballot.
// Selections map position to chosen candidate; an empty map is a valid
// abstention ballot. The persistence layer commits the entries and the
// has_voted flip atomically, so resubmission and concurrent submission
// both come back as ErrAlreadyVoted. On success the committed pairs are
// published to the realtime hub.
func (s *BallotService) SubmitBallot(electionID, voterID string, selections ballot.Selections) error {
	e, err := s.elections.GetByID(electionID)
	if err != nil {
		return err
	}
	if e.Status != election.StatusOngoing {
		return fmt.Errorf("%w: election is %s", common.ErrElectionNotActive, e.Status.Label())
	}

	v, err := s.voters.GetByID(electionID, voterID)
	if err != nil {
		return err
	}
	if v.HasVoted {
		return common.ErrAlreadyVoted
	}

	if err := s.validateSelections(electionID, v, selections); err != nil {
		return err
	}

	entries := ballot.NewEntries(e.ID, v.ID, selections)
	if err := s.ballots.Submit(electionID, voterID, entries); err != nil {
		return err
	}

	deltas := make([]realtime.VoteDelta, 0, len(entries))
	for _, entry := range entries {
		deltas = append(deltas, realtime.VoteDelta{
			PositionID:  entry.PositionID,
			CandidateID: entry.CandidateID,
		})
	}
	s.hub.Publish(realtime.BallotEvent{ElectionID: e.ID, Deltas: deltas})

	s.log.Info("ballot accepted", "election_id", electionID, "voter_id", voterID, "selections", len(entries))
	return nil
}

// validateSelections checks that every selected candidate exists in the
// election, stands for the selected position, and is group-eligible for
// the voter.
func (s *BallotService) validateSelections(electionID string, v *voter.Voter, selections ballot.Selections) error {
	if len(selections) == 0 {
		return nil
	}

	candidates, err := s.candidates.GetByElection(electionID)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*position.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	fieldErrs := &common.ValidationError{}
	for positionID, candidateID := range selections {
		c, ok := byID[candidateID]
		if !ok {
			fieldErrs.Add(positionID.String(), "Selected candidate does not exist in this election.")
			continue
		}
		if c.PositionID != positionID {
			fieldErrs.Add(positionID.String(), "Selected candidate does not stand for this position.")
			continue
		}
		if !c.EligibleFor(v.GroupID) {
			fieldErrs.Add(positionID.String(), "Selected candidate is not available to this voter.")
		}
	}

	if fieldErrs.HasErrors() {
		return fieldErrs
	}
	return nil
}
