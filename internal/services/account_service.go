package services

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/justCallMeJeg/eboto/internal/auth"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/organizer"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
	"github.com/justCallMeJeg/eboto/internal/validation"
)

// AccountService handles organizer authentication and voter magic-link
// login.
type AccountService struct {
	organizers    postgres.OrganizerRepository
	voters        postgres.VoterRepository
	tokens        *auth.TokenIssuer
	mailer        auth.Mailer
	publicBaseURL string
	log           *log.Logger
}

// NewAccountService creates an account service.
func NewAccountService(
	organizers postgres.OrganizerRepository,
	voters postgres.VoterRepository,
	tokens *auth.TokenIssuer,
	mailer auth.Mailer,
	publicBaseURL string,
) *AccountService {
	return &AccountService{
		organizers:    organizers,
		voters:        voters,
		tokens:        tokens,
		mailer:        mailer,
		publicBaseURL: publicBaseURL,
		log:           logger.Service("account"),
	}
}

// Signup creates an organizer account and returns it with a fresh
// session token.
func (s *AccountService) Signup(email, password string) (*organizer.Organizer, string, error) {
	v := validation.OrganizerValidation{}
	fieldErrs := &common.ValidationError{}
	if err := v.ValidateOrganizerEmail(email); err != nil {
		fieldErrs.Add("email", err.Error())
	}
	if err := v.ValidatePassword(password); err != nil {
		fieldErrs.Add("password", err.Error())
	}
	if fieldErrs.HasErrors() {
		return nil, "", fieldErrs
	}

	o, err := organizer.NewOrganizer(email, password)
	if err != nil {
		return nil, "", err
	}

	if err := s.organizers.Create(o); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.IssueOrganizerSession(o.ID.String())
	if err != nil {
		return nil, "", err
	}

	s.log.Info("organizer signed up", "organizer_id", o.ID)
	return o, token, nil
}

// Login verifies an organizer's credentials and returns a session token.
// Unknown emails and wrong passwords both map to ErrUnauthorized.
func (s *AccountService) Login(email, password string) (*organizer.Organizer, string, error) {
	o, err := s.organizers.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	if !o.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	token, err := s.tokens.IssueOrganizerSession(o.ID.String())
	if err != nil {
		return nil, "", err
	}

	s.log.Info("organizer logged in", "organizer_id", o.ID)
	return o, token, nil
}

// RequestRecovery emails a short-lived password-reset link. Unknown
// emails return success without sending anything, so the endpoint does
// not reveal which addresses have accounts.
func (s *AccountService) RequestRecovery(email string) error {
	o, err := s.organizers.GetByEmail(email)
	if err != nil {
		s.log.Debug("recovery requested for unknown email")
		return nil
	}

	token, err := s.tokens.IssueRecovery(o.ID.String())
	if err != nil {
		return err
	}

	link := s.publicBaseURL + "/recovery?token=" + token
	body := "A password reset was requested for your account.\n\n" +
		"Follow this link to choose a new password:\n" + link + "\n\n" +
		"If you did not request this, you can ignore this message."

	if err := s.mailer.Send(o.Email, "Reset your password", body); err != nil {
		return err
	}

	s.log.Info("recovery link sent", "organizer_id", o.ID)
	return nil
}

// ResetPassword sets a new password from a recovery token.
func (s *AccountService) ResetPassword(token, newPassword string) error {
	claims, err := s.tokens.Parse(token, auth.KindRecovery)
	if err != nil {
		return err
	}

	v := validation.OrganizerValidation{}
	if err := v.ValidatePassword(newPassword); err != nil {
		return common.NewValidationError("password", err.Error())
	}

	o, err := s.organizers.GetByID(claims.Subject)
	if err != nil {
		return err
	}

	if err := o.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.organizers.UpdatePassword(o.ID.String(), o.PasswordHash); err != nil {
		return err
	}

	s.log.Info("password reset", "organizer_id", o.ID)
	return nil
}

// UpdatePassword changes a logged-in organizer's password after
// verifying the current one.
func (s *AccountService) UpdatePassword(organizerID, currentPassword, newPassword string) error {
	o, err := s.organizers.GetByID(organizerID)
	if err != nil {
		return err
	}

	if !o.CheckPassword(currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", common.ErrUnauthorized)
	}

	v := validation.OrganizerValidation{}
	if err := v.ValidatePassword(newPassword); err != nil {
		return common.NewValidationError("password", err.Error())
	}

	if err := o.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.organizers.UpdatePassword(o.ID.String(), o.PasswordHash); err != nil {
		return err
	}

	s.log.Info("password updated", "organizer_id", organizerID)
	return nil
}

// RequestVoterLogin emails a one-time magic link to a registered voter
// of the election. An unregistered email is reported back in the result,
// not as an error; a mail relay failure surfaces as ErrAuthDelivery.
func (s *AccountService) RequestVoterLogin(electionID, email string) (registered bool, message string, err error) {
	v, err := s.voters.GetByEmail(electionID, voter.NormalizeEmail(email))
	if err != nil {
		// Only a missing row means unregistered; a storage failure must
		// not masquerade as one.
		if errors.Is(err, common.ErrNotFound) {
			return false, "This email is not registered to vote in this election.", nil
		}
		return false, "", err
	}

	token, err := s.tokens.IssueMagicLink(v.ID.String(), electionID)
	if err != nil {
		return true, "", err
	}

	link := s.publicBaseURL + "/ballot/" + electionID + "?token=" + token
	body := "Here is your one-time voting link:\n\n" + link + "\n\n" +
		"The link expires shortly. If you did not request it, ignore this message."

	if err := s.mailer.Send(v.Email, "Your voting link", body); err != nil {
		return true, "", err
	}

	s.log.Info("magic link sent", "voter_id", v.ID, "election_id", electionID)
	return true, "A voting link has been sent to your email.", nil
}

// ExchangeMagicLink trades a valid magic-link token for a voter session
// token. The voter must still exist in the election's registry.
func (s *AccountService) ExchangeMagicLink(token string) (*voter.Voter, string, error) {
	claims, err := s.tokens.Parse(token, auth.KindMagicLink)
	if err != nil {
		return nil, "", err
	}

	v, err := s.voters.GetByID(claims.ElectionID, claims.Subject)
	if err != nil {
		return nil, "", fmt.Errorf("%w: voter no longer registered", common.ErrUnauthorized)
	}

	session, err := s.tokens.IssueVoterSession(v.ID.String(), claims.ElectionID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("voter session issued", "voter_id", v.ID, "election_id", claims.ElectionID)
	return v, session, nil
}
