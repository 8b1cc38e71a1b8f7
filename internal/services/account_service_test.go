package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justCallMeJeg/eboto/internal/auth"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/storage/memory"
)

// captureMailer records sent mail and can be told to fail.
type captureMailer struct {
	sent []string
	fail bool
}

func (m *captureMailer) Send(to, subject, body string) error {
	if m.fail {
		return fmt.Errorf("%w: relay refused", common.ErrAuthDelivery)
	}
	m.sent = append(m.sent, to)
	return nil
}

func newAccountFixture(t *testing.T) (*fixture, *AccountService, *captureMailer, *auth.TokenIssuer) {
	t.Helper()

	f := newFixture(t)
	mailer := &captureMailer{}
	tokens := auth.NewTokenIssuer("test-secret", 15*time.Minute, 12*time.Hour)
	accounts := NewAccountService(
		memory.NewOrganizerRepository(f.store),
		f.voterRepo,
		tokens,
		mailer,
		"http://localhost:3000",
	)
	return f, accounts, mailer, tokens
}

func TestSignupAndLogin(t *testing.T) {
	_, accounts, _, tokens := newAccountFixture(t)

	o, token, err := accounts.Signup("Org@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "org@example.com", o.Email)
	assert.NotEmpty(t, o.PasswordHash)

	claims, err := tokens.Parse(token, auth.KindOrganizerSession)
	require.NoError(t, err)
	assert.Equal(t, o.ID.String(), claims.Subject)

	_, _, err = accounts.Login("org@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = accounts.Login("org@example.com", "wrong-password")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	_, _, err = accounts.Login("nobody@example.com", "hunter2hunter2")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, accounts, _, _ := newAccountFixture(t)

	_, _, err := accounts.Signup("org@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = accounts.Signup("org@example.com", "otherpassword")
	ve, ok := common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
}

func TestSignupValidation(t *testing.T) {
	_, accounts, _, _ := newAccountFixture(t)

	_, _, err := accounts.Signup("not-an-email", "short")
	ve, ok := common.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "password")
}

func TestRecoveryFlow(t *testing.T) {
	_, accounts, mailer, _ := newAccountFixture(t)

	_, _, err := accounts.Signup("org@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, accounts.RequestRecovery("org@example.com"))
	assert.Len(t, mailer.sent, 1)

	// Unknown emails are silently accepted and nothing is sent.
	require.NoError(t, accounts.RequestRecovery("nobody@example.com"))
	assert.Len(t, mailer.sent, 1)
}

func TestUpdatePassword(t *testing.T) {
	_, accounts, _, _ := newAccountFixture(t)

	o, _, err := accounts.Signup("org@example.com", "hunter2hunter2")
	require.NoError(t, err)

	err = accounts.UpdatePassword(o.ID.String(), "wrong", "newpassword123")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	require.NoError(t, accounts.UpdatePassword(o.ID.String(), "hunter2hunter2", "newpassword123"))

	_, _, err = accounts.Login("org@example.com", "newpassword123")
	require.NoError(t, err)
	_, _, err = accounts.Login("org@example.com", "hunter2hunter2")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestRequestVoterLogin(t *testing.T) {
	f, accounts, mailer, _ := newAccountFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	f.seedVoter(t, e.ID, "ana@example.com", nil)

	// Case-insensitive lookup.
	registered, message, err := accounts.RequestVoterLogin(e.ID.String(), "ANA@Example.com")
	require.NoError(t, err)
	assert.True(t, registered)
	assert.NotEmpty(t, message)
	assert.Equal(t, []string{"ana@example.com"}, mailer.sent)

	// Unregistered email is a success-shaped answer, no mail.
	registered, message, err = accounts.RequestVoterLogin(e.ID.String(), "stranger@example.com")
	require.NoError(t, err)
	assert.False(t, registered)
	assert.NotEmpty(t, message)
	assert.Len(t, mailer.sent, 1)
}

func TestRequestVoterLoginStorageFailurePropagates(t *testing.T) {
	f := newFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)

	mailer := &captureMailer{}
	tokens := auth.NewTokenIssuer("test-secret", 15*time.Minute, 12*time.Hour)
	accounts := NewAccountService(
		memory.NewOrganizerRepository(f.store),
		&failingVoterRepo{f.voterRepo},
		tokens,
		mailer,
		"http://localhost:3000",
	)

	// A lookup failure is an error, never an unregistered-voter answer,
	// and no link is sent.
	registered, _, err := accounts.RequestVoterLogin(e.ID.String(), "ana@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStorage))
	assert.False(t, registered)
	assert.Empty(t, mailer.sent)
}

func TestRequestVoterLoginDeliveryFailure(t *testing.T) {
	f, accounts, mailer, _ := newAccountFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	f.seedVoter(t, e.ID, "ana@example.com", nil)

	mailer.fail = true
	_, _, err := accounts.RequestVoterLogin(e.ID.String(), "ana@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrAuthDelivery))
}

func TestExchangeMagicLink(t *testing.T) {
	f, accounts, _, tokens := newAccountFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	magic, err := tokens.IssueMagicLink(v.ID.String(), e.ID.String())
	require.NoError(t, err)

	got, session, err := accounts.ExchangeMagicLink(magic)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	claims, err := tokens.Parse(session, auth.KindVoterSession)
	require.NoError(t, err)
	assert.Equal(t, v.ID.String(), claims.Subject)
	assert.Equal(t, e.ID.String(), claims.ElectionID)
}

func TestExchangeMagicLinkRemovedVoter(t *testing.T) {
	f, accounts, _, tokens := newAccountFixture(t)
	e, ownerID := f.seedElection(t, election.StatusOngoing)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	magic, err := tokens.IssueMagicLink(v.ID.String(), e.ID.String())
	require.NoError(t, err)

	require.NoError(t, f.voters.Delete(ownerID.String(), e.ID.String(), v.ID.String()))

	_, _, err = accounts.ExchangeMagicLink(magic)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestExchangeMagicLinkRejectsSessionToken(t *testing.T) {
	f, accounts, _, tokens := newAccountFixture(t)
	e, _ := f.seedElection(t, election.StatusOngoing)
	v := f.seedVoter(t, e.ID, "ana@example.com", nil)

	session, err := tokens.IssueVoterSession(v.ID.String(), e.ID.String())
	require.NoError(t, err)

	_, _, err = accounts.ExchangeMagicLink(session)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}
