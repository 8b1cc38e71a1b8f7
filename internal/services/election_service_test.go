package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
)

func TestCreateElection(t *testing.T) {
	f := newFixture(t)
	ownerID := uuid.New().String()

	e, err := f.elections.Create(ownerID, "Student Council", "Annual vote", time.Now(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, election.StatusPreElection, e.Status)
	assert.Equal(t, 0, e.VoterCount)

	got, err := f.elections.Get(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}

func TestCreateElectionValidation(t *testing.T) {
	f := newFixture(t)
	ownerID := uuid.New().String()
	start := time.Now()

	_, err := f.elections.Create(ownerID, "ab", "", start, start.Add(time.Hour))
	ve, ok := common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "name")

	_, err = f.elections.Create(ownerID, "Valid Name", "", start, start.Add(-time.Hour))
	ve, ok = common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "end_date")
}

func TestStartElection(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)

	started, err := f.elections.Start(ownerID.String(), e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, election.StatusOngoing, started.Status)

	stored, err := f.elections.Get(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, election.StatusOngoing, stored.Status)
}

func TestStartElectionOwnerOnly(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusPreElection)

	_, err := f.elections.Start(uuid.New().String(), e.ID.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	stored, err := f.elections.Get(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, election.StatusPreElection, stored.Status)
}

func TestStartElectionAlreadyStarted(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusOngoing)

	_, err := f.elections.Start(ownerID.String(), e.ID.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))

	// Status is unchanged.
	stored, err := f.elections.Get(e.ID.String())
	require.NoError(t, err)
	assert.Equal(t, election.StatusOngoing, stored.Status)
}

func TestStartElectionNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.elections.Start(uuid.New().String(), uuid.New().String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)
	f.seedElection(t, election.StatusPreElection)

	mine, err := f.elections.ListByOwner(ownerID.String())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, e.ID, mine[0].ID)
}

func TestDeleteElectionOwnerOnly(t *testing.T) {
	f := newFixture(t)
	e, ownerID := f.seedElection(t, election.StatusPreElection)

	err := f.elections.Delete(uuid.New().String(), e.ID.String())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	require.NoError(t, f.elections.Delete(ownerID.String(), e.ID.String()))

	_, err = f.elections.Get(e.ID.String())
	assert.True(t, errors.Is(err, common.ErrNotFound))
}
