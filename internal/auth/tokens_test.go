package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", 15*time.Minute, 12*time.Hour)
}

func TestMagicLinkRoundTrip(t *testing.T) {
	issuer := newTestIssuer()
	voterID := uuid.New().String()
	electionID := uuid.New().String()

	token, err := issuer.IssueMagicLink(voterID, electionID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token, KindMagicLink)
	require.NoError(t, err)
	assert.Equal(t, voterID, claims.Subject)
	assert.Equal(t, electionID, claims.ElectionID)
	assert.Equal(t, KindMagicLink, claims.Kind)
}

func TestKindMismatchRejected(t *testing.T) {
	issuer := newTestIssuer()

	// A magic link must not be usable as a session token.
	token, err := issuer.IssueMagicLink(uuid.New().String(), uuid.New().String())
	require.NoError(t, err)

	_, err = issuer.Parse(token, KindVoterSession)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := newTestIssuer()
	other := NewTokenIssuer("other-secret", 15*time.Minute, 12*time.Hour)

	token, err := issuer.IssueOrganizerSession(uuid.New().String())
	require.NoError(t, err)

	_, err = other.Parse(token, KindOrganizerSession)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)

	token, err := issuer.IssueVoterSession(uuid.New().String(), uuid.New().String())
	require.NoError(t, err)

	_, err = issuer.Parse(token, KindVoterSession)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestGarbageTokenRejected(t *testing.T) {
	issuer := newTestIssuer()

	_, err := issuer.Parse("not-a-token", KindOrganizerSession)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestOrganizerSessionHasNoElection(t *testing.T) {
	issuer := newTestIssuer()
	organizerID := uuid.New().String()

	token, err := issuer.IssueOrganizerSession(organizerID)
	require.NoError(t, err)

	claims, err := issuer.Parse(token, KindOrganizerSession)
	require.NoError(t, err)
	assert.Equal(t, organizerID, claims.Subject)
	assert.Empty(t, claims.ElectionID)
}
