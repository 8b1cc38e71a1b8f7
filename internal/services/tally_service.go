package services

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/realtime"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
)

// CandidateTally is one candidate's running vote count within a position.
type CandidateTally struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	DisplayName string    `json:"display_name"`
	Party       string    `json:"party"`
	ImageURL    string    `json:"image_url,omitempty"`
	VoteCount   int64     `json:"vote_count"`
}

// PositionTally is the ranked tally for one position.
type PositionTally struct {
	PositionID   uuid.UUID        `json:"position_id"`
	PositionName string           `json:"position_name"`
	Candidates   []CandidateTally `json:"candidates"`
}

// Snapshot is a point-in-time tally of an election. Apply folds ballot
// events into it incrementally; the ordering after any sequence of Apply
// calls matches what a fresh ComputeTally over the same entries produces.
type Snapshot struct {
	ElectionID uuid.UUID       `json:"election_id"`
	Positions  []PositionTally `json:"positions"`
}

// Analytics summarizes participation for an election.
type Analytics struct {
	RegisteredVoters int     `json:"registered_voters"`
	VotesCast        int64   `json:"votes_cast"`
	TurnoutPercent   float64 `json:"turnout_percent"`
}

// TallyService aggregates ballot entries into ranked results.
type TallyService struct {
	elections  postgres.ElectionRepository
	positions  postgres.PositionRepository
	candidates postgres.CandidateRepository
	ballots    postgres.BallotRepository
	log        *log.Logger
}

// NewTallyService creates a tally service.
func NewTallyService(
	elections postgres.ElectionRepository,
	positions postgres.PositionRepository,
	candidates postgres.CandidateRepository,
	ballots postgres.BallotRepository,
) *TallyService {
	return &TallyService{
		elections:  elections,
		positions:  positions,
		candidates: candidates,
		ballots:    ballots,
		log:        logger.Service("tally"),
	}
}

// ComputeTally builds a full snapshot from all committed ballot entries.
// Every candidate appears, zero-vote ones included. Recomputing over the
// same entries yields the same snapshot.
func (s *TallyService) ComputeTally(electionID string) (*Snapshot, error) {
	e, err := s.elections.GetByID(electionID)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.GetByElection(electionID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.candidates.GetByElection(electionID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ballots.GetByElection(electionID)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(candidates))
	for _, entry := range entries {
		counts[entry.CandidateID]++
	}

	snapshot := &Snapshot{ElectionID: e.ID, Positions: []PositionTally{}}
	for _, p := range positions {
		pt := PositionTally{PositionID: p.ID, PositionName: p.Name}
		for _, c := range candidates {
			if c.PositionID != p.ID {
				continue
			}
			pt.Candidates = append(pt.Candidates, CandidateTally{
				CandidateID: c.ID,
				DisplayName: c.DisplayName,
				Party:       c.Party,
				ImageURL:    c.ImageURL,
				VoteCount:   counts[c.ID],
			})
		}
		sortTallies(pt.Candidates)
		snapshot.Positions = append(snapshot.Positions, pt)
	}

	return snapshot, nil
}

// Turnout computes the participation figures for an election. Zero
// registered voters yields zero percent.
func (s *TallyService) Turnout(electionID string) (*Analytics, error) {
	e, err := s.elections.GetByID(electionID)
	if err != nil {
		return nil, err
	}

	votesCast, err := s.ballots.CountDistinctVoters(electionID)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	if e.VoterCount > 0 {
		percent = math.Round(float64(votesCast)/float64(e.VoterCount)*100*100) / 100
	}

	return &Analytics{
		RegisteredVoters: e.VoterCount,
		VotesCast:        votesCast,
		TurnoutPercent:   percent,
	}, nil
}

// Apply folds one ballot event into the snapshot, re-sorting only the
// positions the event touched.
func (s *Snapshot) Apply(event realtime.BallotEvent) {
	if event.ElectionID != s.ElectionID {
		return
	}

	touched := make(map[uuid.UUID]bool, len(event.Deltas))
	for _, delta := range event.Deltas {
		for i := range s.Positions {
			if s.Positions[i].PositionID != delta.PositionID {
				continue
			}
			for j := range s.Positions[i].Candidates {
				if s.Positions[i].Candidates[j].CandidateID == delta.CandidateID {
					s.Positions[i].Candidates[j].VoteCount++
					touched[delta.PositionID] = true
				}
			}
		}
	}

	for i := range s.Positions {
		if touched[s.Positions[i].PositionID] {
			sortTallies(s.Positions[i].Candidates)
		}
	}
}

// AffectedPositions returns copies of the position tallies an event
// touched, for pushing partial updates to subscribers.
func (s *Snapshot) AffectedPositions(event realtime.BallotEvent) []PositionTally {
	seen := make(map[uuid.UUID]bool, len(event.Deltas))
	var affected []PositionTally
	for _, delta := range event.Deltas {
		if seen[delta.PositionID] {
			continue
		}
		seen[delta.PositionID] = true
		for i := range s.Positions {
			if s.Positions[i].PositionID == delta.PositionID {
				pt := s.Positions[i]
				pt.Candidates = append([]CandidateTally(nil), pt.Candidates...)
				affected = append(affected, pt)
			}
		}
	}
	return affected
}

// sortTallies ranks candidates by vote count descending, then lowercased
// display name ascending, then candidate ID as the final tiebreak. Batch
// and incremental tallies both rank through here so they always agree.
func sortTallies(tallies []CandidateTally) {
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].VoteCount != tallies[j].VoteCount {
			return tallies[i].VoteCount > tallies[j].VoteCount
		}
		ni, nj := strings.ToLower(tallies[i].DisplayName), strings.ToLower(tallies[j].DisplayName)
		if ni != nj {
			return ni < nj
		}
		return tallies[i].CandidateID.String() < tallies[j].CandidateID.String()
	})
}
