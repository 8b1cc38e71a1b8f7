package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/storage/memory"
)

// failingVoterRepo wraps the in-memory voter repository and fails every
// email lookup, standing in for a database outage.
type failingVoterRepo struct {
	*memory.InMemoryVoterRepository
}

func (r *failingVoterRepo) GetByEmail(electionID, email string) (*voter.Voter, error) {
	return nil, fmt.Errorf("%w: connection refused", common.ErrStorage)
}

func TestGetEligibleBallotUnregisteredEmail(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)

	// An unknown email is a success-shaped answer, never an error.
	result, err := f.ballots.GetEligibleBallot(e.ID.String(), "stranger@example.com")
	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.NotEmpty(t, result.Message)
	assert.Empty(t, result.Positions)
}

func TestGetEligibleBallotStorageFailurePropagates(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)

	ballots := NewBallotService(f.electionRepo, &failingVoterRepo{f.voterRepo}, f.positionRepo, f.candidateRepo, f.ballotRepo, f.hub)

	// A lookup failure is an error, never an unregistered-voter answer.
	result, err := ballots.GetEligibleBallot(e.ID.String(), "ana@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStorage))
	assert.Nil(t, result)
}

func TestGetEligibleBallotCaseInsensitiveEmail(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	f.seedVoter(t, e.ID, "ana@example.com", nil)

	result, err := f.ballots.GetEligibleBallot(e.ID.String(), "ANA@Example.com")
	require.NoError(t, err)
	assert.True(t, result.Registered)
	require.Len(t, result.Positions, 1)
}

func TestGetEligibleBallotGroupFiltering(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	g := f.seedGroup(t, e.ID, "Seniors")
	p := f.seedPosition(t, e.ID, "President")

	open := f.seedCandidate(t, e.ID, p.ID, "Open To All", nil)
	restricted := f.seedCandidate(t, e.ID, p.ID, "Seniors Only", &g.ID)

	grouped := f.seedVoter(t, e.ID, "grouped@example.com", &g.ID)
	ungrouped := f.seedVoter(t, e.ID, "ungrouped@example.com", nil)

	// Voter in the group sees both candidates.
	result, err := f.ballots.GetEligibleBallot(e.ID.String(), grouped.Email)
	require.NoError(t, err)
	require.Len(t, result.Positions, 1)
	ids := candidateIDs(result.Positions[0].Candidates)
	assert.ElementsMatch(t, []uuid.UUID{open.ID, restricted.ID}, ids)

	// Voter without a group sees only the unrestricted candidate.
	result, err = f.ballots.GetEligibleBallot(e.ID.String(), ungrouped.Email)
	require.NoError(t, err)
	require.Len(t, result.Positions, 1)
	ids = candidateIDs(result.Positions[0].Candidates)
	assert.ElementsMatch(t, []uuid.UUID{open.ID}, ids)
}

func TestGetEligibleBallotDropsEmptyPositions(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	g := f.seedGroup(t, e.ID, "Seniors")

	contested := f.seedPosition(t, e.ID, "President")
	f.seedCandidate(t, e.ID, contested.ID, "Ana", nil)

	// Every candidate for this position is restricted to the group.
	exclusive := f.seedPosition(t, e.ID, "Senior Rep")
	f.seedCandidate(t, e.ID, exclusive.ID, "Seniors Only", &g.ID)

	ungrouped := f.seedVoter(t, e.ID, "ungrouped@example.com", nil)

	result, err := f.ballots.GetEligibleBallot(e.ID.String(), ungrouped.Email)
	require.NoError(t, err)
	require.Len(t, result.Positions, 1)
	assert.Equal(t, contested.ID, result.Positions[0].ID)
}

func TestGetEligibleBallotNotOngoing(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusPreElection)
	p := f.seedPosition(t, e.ID, "President")
	f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	result, err := f.ballots.GetEligibleBallot(e.ID.String(), v.Email)
	require.NoError(t, err)
	assert.True(t, result.Registered)
	assert.Empty(t, result.Positions)
	assert.NotEmpty(t, result.Message)
}

func TestGetEligibleBallotAlreadyVoted(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	require.NoError(t, f.ballots.SubmitBallot(e.ID.String(), v.ID.String(), ballot.Selections{}))

	result, err := f.ballots.GetEligibleBallot(e.ID.String(), v.Email)
	require.NoError(t, err)
	assert.True(t, result.Registered)
	assert.Empty(t, result.Positions)
}

func TestSubmitBallotHappyPath(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	c := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	events, cancel := f.hub.Subscribe(e.ID)
	defer cancel()

	err := f.ballots.SubmitBallot(e.ID.String(), v.ID.String(), ballot.Selections{p.ID: c.ID})
	require.NoError(t, err)

	entries, err := f.ballotRepo.GetByElection(e.ID.String())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, c.ID, entries[0].CandidateID)

	voted, err := f.voterRepo.GetByID(e.ID.String(), v.ID.String())
	require.NoError(t, err)
	assert.True(t, voted.HasVoted)
	assert.NotNil(t, voted.VotedAt)

	select {
	case event := <-events:
		assert.Equal(t, e.ID, event.ElectionID)
		require.Len(t, event.Deltas, 1)
		assert.Equal(t, c.ID, event.Deltas[0].CandidateID)
	case <-time.After(time.Second):
		t.Fatal("no ballot event published")
	}
}

func TestSubmitBallotEmptySelectionsIsValid(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	require.NoError(t, f.ballots.SubmitBallot(e.ID.String(), v.ID.String(), ballot.Selections{}))

	voted, err := f.voterRepo.GetByID(e.ID.String(), v.ID.String())
	require.NoError(t, err)
	assert.True(t, voted.HasVoted)

	entries, err := f.ballotRepo.GetByElection(e.ID.String())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmitBallotResubmissionRejected(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	p := f.seedPosition(t, e.ID, "President")
	c := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	require.NoError(t, f.ballots.SubmitBallot(e.ID.String(), v.ID.String(), ballot.Selections{p.ID: c.ID}))

	err := f.ballots.SubmitBallot(e.ID.String(), v.ID.String(), ballot.Selections{p.ID: c.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAlreadyVoted))

	// No extra entries from the rejected attempt.
	entries, err := f.ballotRepo.GetByElection(e.ID.String())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSubmitBallotElectionNotActive(t *testing.T) {
	f := newFixture(t)

	for _, status := range []election.Status{election.StatusPreElection, election.StatusPostElection, election.StatusClosed} {
		e, _ := f.seedElection(t, status)
		v := f.seedVoter(t, e.ID, "ana@example.com", nil)

		err := f.ballots.SubmitBallot(e.ID.String(), v.ID.String(), ballot.Selections{})
		require.Error(t, err, "status %s", status)
		assert.True(t, errors.Is(err, common.ErrElectionNotActive))
	}
}

func TestSubmitBallotUnknownElectionAndVoter(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)

	err := f.ballots.SubmitBallot(uuid.New().String(), uuid.New().String(), ballot.Selections{})
	assert.True(t, errors.Is(err, common.ErrNotFound))

	err = f.ballots.SubmitBallot(e.ID.String(), uuid.New().String(), ballot.Selections{})
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSubmitBallotRejectsCrossPositionCandidate(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	president := f.seedPosition(t, e.ID, "President")
	secretary := f.seedPosition(t, e.ID, "Secretary")
	c := f.seedCandidate(t, e.ID, president.ID, "Ana", nil)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	// Candidate stands for President, not Secretary.
	err := f.ballots.SubmitBallot(e.ID.String(), v.ID.String(), ballot.Selections{secretary.ID: c.ID})
	_, ok := common.AsValidationError(err)
	require.True(t, ok)

	voted, err := f.voterRepo.GetByID(e.ID.String(), v.ID.String())
	require.NoError(t, err)
	assert.False(t, voted.HasVoted)
}

func TestSubmitBallotRejectsIneligibleCandidate(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	g := f.seedGroup(t, e.ID, "Seniors")
	p := f.seedPosition(t, e.ID, "Senior Rep")
	restricted := f.seedCandidate(t, e.ID, p.ID, "Seniors Only", &g.ID)
	outsider := f.seedVoter(t, e.ID, "outsider@example.com", nil)

	err := f.ballots.SubmitBallot(e.ID.String(), outsider.ID.String(), ballot.Selections{p.ID: restricted.ID})
	_, ok := common.AsValidationError(err)
	require.True(t, ok)
}

func candidateIDs(candidates []*position.Candidate) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}
