package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/group"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/realtime"
	"github.com/justCallMeJeg/eboto/internal/storage/memory"
)

// fixture wires every service against a shared in-memory store.
type fixture struct {
	store         *memory.Store
	hub           *realtime.Hub
	elections     *ElectionService
	voters        *VoterService
	roster        *RosterService
	ballots       *BallotService
	tally         *TallyService
	electionRepo  *memory.InMemoryElectionRepository
	voterRepo     *memory.InMemoryVoterRepository
	groupRepo     *memory.InMemoryGroupRepository
	positionRepo  *memory.InMemoryPositionRepository
	candidateRepo *memory.InMemoryCandidateRepository
	ballotRepo    *memory.InMemoryBallotRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	hub := realtime.NewHub()

	electionRepo := memory.NewElectionRepository(store)
	voterRepo := memory.NewVoterRepository(store)
	groupRepo := memory.NewGroupRepository(store)
	positionRepo := memory.NewPositionRepository(store)
	candidateRepo := memory.NewCandidateRepository(store)
	ballotRepo := memory.NewBallotRepository(store)

	return &fixture{
		store:         store,
		hub:           hub,
		elections:     NewElectionService(electionRepo),
		voters:        NewVoterService(electionRepo, voterRepo, groupRepo),
		roster:        NewRosterService(electionRepo, groupRepo, positionRepo, candidateRepo, nil),
		ballots:       NewBallotService(electionRepo, voterRepo, positionRepo, candidateRepo, ballotRepo, hub),
		tally:         NewTallyService(electionRepo, positionRepo, candidateRepo, ballotRepo),
		electionRepo:  electionRepo,
		voterRepo:     voterRepo,
		groupRepo:     groupRepo,
		positionRepo:  positionRepo,
		candidateRepo: candidateRepo,
		ballotRepo:    ballotRepo,
	}
}

// seedElection creates an election owned by a fresh organizer ID and
// returns both.
func (f *fixture) seedElection(t *testing.T, status election.Status) (*election.Election, uuid.UUID) {
	t.Helper()

	ownerID := uuid.New()
	e := election.NewElection("Student Council", "", ownerID, time.Now(), time.Now().Add(48*time.Hour))
	e.Status = status
	require.NoError(t, f.electionRepo.Create(e))
	return e, ownerID
}

func (f *fixture) seedGroup(t *testing.T, electionID uuid.UUID, name string) *group.Group {
	t.Helper()

	g := group.NewGroup(electionID, name)
	require.NoError(t, f.groupRepo.Create(g))
	return g
}

func (f *fixture) seedPosition(t *testing.T, electionID uuid.UUID, name string) *position.Position {
	t.Helper()

	p := position.NewPosition(electionID, name)
	require.NoError(t, f.positionRepo.Create(p))
	return p
}

func (f *fixture) seedCandidate(t *testing.T, electionID, positionID uuid.UUID, name string, groupID *uuid.UUID) *position.Candidate {
	t.Helper()

	c := position.NewCandidate(electionID, positionID, name, "Independent", groupID)
	require.NoError(t, f.candidateRepo.Create(c))
	return c
}

func (f *fixture) seedVoter(t *testing.T, electionID uuid.UUID, email string, groupID *uuid.UUID) *voter.Voter {
	t.Helper()

	v := voter.NewVoter(electionID, email, groupID)
	require.NoError(t, f.voterRepo.Create(v))
	return v
}
