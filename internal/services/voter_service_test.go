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

func TestRegisterVoterNormalizesEmail(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)

	v, err := f.voters.Register(ownerID.String(), e.ID.String(), "  Ana@Example.COM ", "")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", v.Email)

	stored, err := f.elections.Get(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.VoterCount)
}

func TestRegisterVoterDuplicateIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)

	_, err := f.voters.Register(ownerID.String(), e.ID.String(), "ana@example.com", "")
	require.NoError(t, err)

	_, err = f.voters.Register(ownerID.String(), e.ID.String(), "ANA@example.com", "")
	ve, ok := common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")

	// The failed registration must not bump the count.
	stored, err := f.elections.Get(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.VoterCount)
}

func TestRegisterVoterSameEmailOtherElection(t *testing.T) {
	f := newFixture(t)
	e1, owner1 := f.seedElection(t, election.StatusPreElection)
	e2, owner2 := f.seedElection(t, election.StatusPreElection)

	_, err := f.voters.Register(owner1.String(), e1.ID.String(), "ana@example.com", "")
	require.NoError(t, err)

	// Uniqueness is scoped per election.
	_, err = f.voters.Register(owner2.String(), e2.ID.String(), "ana@example.com", "")
	require.NoError(t, err)
}

func TestRegisterVoterOwnerOnly(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusPreElection)

	_, err := f.voters.Register(uuid.New().String(), e.ID.String(), "ana@example.com", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestRegisterVoterUnknownGroup(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)

	_, err := f.voters.Register(ownerID.String(), e.ID.String(), "ana@example.com", uuid.New().String())
	ve, ok := common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "group_id")
}

func TestUpdateVoterGroup(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)
	g := f.seedGroup(t, e.ID, "Seniors")

	v, err := f.voters.Register(ownerID.String(), e.ID.String(), "ana@example.com", "")
	require.NoError(t, err)
	require.Nil(t, v.GroupID)

	updated, err := f.voters.Update(ownerID.String(), e.ID.String(), v.ID.String(), "ana@example.com", g.ID.String())
	require.NoError(t, err)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, g.ID, *updated.GroupID)
}

func TestDeleteVoterDecrementsCount(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)

	v, err := f.voters.Register(ownerID.String(), e.ID.String(), "ana@example.com", "")
	require.NoError(t, err)

	require.NoError(t, f.voters.Delete(ownerID.String(), e.ID.String(), v.ID.String()))

	stored, err := f.elections.Get(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.VoterCount)

	voters, err := f.voters.List(ownerID.String(), e.ID.String())
	require.NoError(t, err)
	assert.Empty(t, voters)
}
