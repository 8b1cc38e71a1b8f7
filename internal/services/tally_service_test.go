package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/realtime"
)

// castBallot registers a throwaway voter and submits the selections.
func (f *fixture) castBallot(t *testing.T, electionID uuid.UUID, selections ballot.Selections) {
	t.Helper()

	v := voter.NewVoter(electionID, uuid.New().String()+"@example.com", nil)
	require.NoError(t, f.voterRepo.Create(v))
	require.NoError(t, f.ballots.SubmitBallot(electionID.String(), v.ID.String(), selections))
}

func TestComputeTallyRanksByCount(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	ana := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	ben := f.seedCandidate(t, e.ID, p.ID, "Ben", nil)

	// Ana 2, Ben 1.
	f.castBallot(t, e.ID, ballot.Selections{p.ID: ana.ID})
	f.castBallot(t, e.ID, ballot.Selections{p.ID: ana.ID})
	f.castBallot(t, e.ID, ballot.Selections{p.ID: ben.ID})

	snapshot, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)
	require.Len(t, snapshot.Positions, 1)

	tallies := snapshot.Positions[0].Candidates
	require.Len(t, tallies, 2)
	assert.Equal(t, ana.ID, tallies[0].CandidateID)
	assert.Equal(t, int64(2), tallies[0].VoteCount)
	assert.Equal(t, ben.ID, tallies[1].CandidateID)
	assert.Equal(t, int64(1), tallies[1].VoteCount)
}

func TestComputeTallyTieBreaksByName(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")

	// Seed in reverse alphabetical order; case must not matter.
	zoe := f.seedCandidate(t, e.ID, p.ID, "zoe", nil)
	ana := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)

	snapshot, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)
	require.Len(t, snapshot.Positions, 1)

	tallies := snapshot.Positions[0].Candidates
	require.Len(t, tallies, 2)
	assert.Equal(t, ana.ID, tallies[0].CandidateID)
	assert.Equal(t, zoe.ID, tallies[1].CandidateID)
}

func TestComputeTallyIncludesZeroVoteCandidates(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	ana := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	ben := f.seedCandidate(t, e.ID, p.ID, "Ben", nil)

	f.castBallot(t, e.ID, ballot.Selections{p.ID: ana.ID})

	snapshot, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)

	tallies := snapshot.Positions[0].Candidates
	require.Len(t, tallies, 2)
	assert.Equal(t, ben.ID, tallies[1].CandidateID)
	assert.Equal(t, int64(0), tallies[1].VoteCount)
}

func TestComputeTallyIdempotent(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	ana := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	f.castBallot(t, e.ID, ballot.Selections{p.ID: ana.ID})

	first, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)
	second, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSnapshotApplyMatchesBatch(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	ana := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	ben := f.seedCandidate(t, e.ID, p.ID, "Ben", nil)

	// Start from the empty snapshot, then feed events through Apply while
	// committing the same ballots to storage.
	incremental, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)

	events, cancel := f.hub.Subscribe(e.ID)
	defer cancel()

	casts := []ballot.Selections{
		{p.ID: ben.ID},
		{p.ID: ana.ID},
		{p.ID: ben.ID},
	}
	for _, selections := range casts {
		f.castBallot(t, e.ID, selections)
		incremental.Apply(<-events)
	}

	batch, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)

	assert.Equal(t, batch, incremental)

	// Ben leads 2 to 1 in both.
	require.Len(t, incremental.Positions, 1)
	tallies := incremental.Positions[0].Candidates
	assert.Equal(t, ben.ID, tallies[0].CandidateID)
	assert.Equal(t, int64(2), tallies[0].VoteCount)
}

func TestSnapshotApplyIgnoresOtherElections(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	ana := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)

	snapshot, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)

	snapshot.Apply(realtime.BallotEvent{
		ElectionID: uuid.New(),
		Deltas:     []realtime.VoteDelta{{PositionID: p.ID, CandidateID: ana.ID}},
	})

	assert.Equal(t, int64(0), snapshot.Positions[0].Candidates[0].VoteCount)
}

func TestSnapshotAffectedPositions(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	president := f.seedPosition(t, e.ID, "President")
	secretary := f.seedPosition(t, e.ID, "Secretary")
	ana := f.seedCandidate(t, e.ID, president.ID, "Ana", nil)
	f.seedCandidate(t, e.ID, secretary.ID, "Ben", nil)

	snapshot, err := f.tally.ComputeTally(e.ID.String())
	require.NoError(t, err)

	event := realtime.BallotEvent{
		ElectionID: e.ID,
		Deltas:     []realtime.VoteDelta{{PositionID: president.ID, CandidateID: ana.ID}},
	}
	snapshot.Apply(event)

	affected := snapshot.AffectedPositions(event)
	require.Len(t, affected, 1)
	assert.Equal(t, president.ID, affected[0].PositionID)
	assert.Equal(t, int64(1), affected[0].Candidates[0].VoteCount)
}

func TestTurnout(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusOngoing)

	// Three registered voters, one ballot cast.
	var voterIDs []uuid.UUID
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		v, err := f.voters.Register(ownerID.String(), e.ID.String(), email, "")
		require.NoError(t, err)
		voterIDs = append(voterIDs, v.ID)
	}
	require.NoError(t, f.ballots.SubmitBallot(e.ID.String(), voterIDs[0].String(), ballot.Selections{}))

	analytics, err := f.tally.Turnout(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 3, analytics.RegisteredVoters)
	assert.Equal(t, int64(1), analytics.VotesCast)
	assert.InDelta(t, 33.33, analytics.TurnoutPercent, 0.001)
}

func TestTurnoutZeroRegistered(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)

	analytics, err := f.tally.Turnout(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, analytics.RegisteredVoters)
	assert.Equal(t, int64(0), analytics.VotesCast)
	assert.Equal(t, 0.0, analytics.TurnoutPercent)
}
