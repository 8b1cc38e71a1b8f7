package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
)

func TestRosterOwnerOnly(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusPreElection)
	stranger := uuid.New().String()

	_, err := f.roster.CreateGroup(stranger, e.ID.String(), "Seniors")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = f.roster.CreatePosition(stranger, e.ID.String(), "President")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, err = f.roster.ListCandidates(stranger, e.ID.String())
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestCreateCandidateValidatesReferences(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)
	p := f.seedPosition(t, e.ID, "President")

	// Position must belong to the election.
	_, err := f.roster.CreateCandidate(ownerID.String(), e.ID.String(), CandidateInput{
		PositionID:  uuid.New().String(),
		DisplayName: "Ana",
		Party:       "Independent",
	})
	ve, ok := common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "position_id")

	// Group, when given, must belong to the election.
	_, err = f.roster.CreateCandidate(ownerID.String(), e.ID.String(), CandidateInput{
		PositionID:  p.ID.String(),
		GroupID:     uuid.New().String(),
		DisplayName: "Ana",
		Party:       "Independent",
	})
	ve, ok = common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "group_id")

	c, err := f.roster.CreateCandidate(ownerID.String(), e.ID.String(), CandidateInput{
		PositionID:  p.ID.String(),
		DisplayName: "Ana",
		Party:       "Independent",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, c.PositionID)
	assert.Nil(t, c.GroupID)
}

func TestDeleteGroupDetachesMembers(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)
	g := f.seedGroup(t, e.ID, "Seniors")
	p := f.seedPosition(t, e.ID, "President")
	c := f.seedCandidate(t, e.ID, p.ID, "Seniors Only", &g.ID)
	v := f.seedVoter(t, e.ID, "ana@example.com", &g.ID)

	require.NoError(t, f.roster.DeleteGroup(ownerID.String(), e.ID.String(), g.ID.String()))

	detachedVoter, err := f.voterRepo.GetByID(e.ID.String(), v.ID.String())
	require.NoError(t, err)
	assert.Nil(t, detachedVoter.GroupID)

	detachedCandidate, err := f.candidateRepo.GetByID(e.ID.String(), c.ID.String())
	require.NoError(t, err)
	assert.Nil(t, detachedCandidate.GroupID)
}

func TestPortraitUploadDisabledWithoutStore(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)
	p := f.seedPosition(t, e.ID, "President")
	c := f.seedCandidate(t, e.ID, p.ID, "Ana", nil)

	_, err := f.roster.UploadPortrait(t.Context(), ownerID.String(), e.ID.String(), c.ID.String(), nil, 0, "image/png")
	ve, ok := common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "image")
}
