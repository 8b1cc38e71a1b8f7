package validation

import (
	"errors"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateRequired checks that a field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateUUID checks that a string is a valid UUID
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email must have a valid format")
	}
	return nil
}

// ValidateURL checks that a string parses as an absolute URL
func ValidateURL(value, fieldName string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New(fieldName + " must be a valid URL")
	}
	return nil
}

// ValidateDateRange checks that the end date follows the start date
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}

// ElectionValidation contains validations specific to elections
type ElectionValidation struct{}

// ValidateName validates an election name
func (v ElectionValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 3, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}

// ValidateDescription validates an election description
func (v ElectionValidation) ValidateDescription(description string) error {
	if description == "" {
		return nil
	}
	return ValidateMaxLength(description, 500, "description")
}

// VoterValidation contains validations specific to voters
type VoterValidation struct{}

// ValidateVoterEmail validates a voter email
func (v VoterValidation) ValidateVoterEmail(email string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	return ValidateEmail(email)
}

// ValidateGroupID validates an optional group reference
func (v VoterValidation) ValidateGroupID(groupID string) error {
	if groupID == "" {
		return nil
	}
	return ValidateUUID(groupID, "group_id")
}

// GroupValidation contains validations specific to voter groups
type GroupValidation struct{}

// ValidateName validates a group name
func (v GroupValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "name")
}

// PositionValidation contains validations specific to positions
type PositionValidation struct{}

// ValidateName validates a position name
func (v PositionValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "name")
}

// CandidateValidation contains validations specific to candidates
type CandidateValidation struct{}

// ValidateDisplayName validates a candidate display name
func (v CandidateValidation) ValidateDisplayName(name string) error {
	if err := ValidateRequired(name, "display_name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "display_name")
}

// ValidateParty validates a candidate party
func (v CandidateValidation) ValidateParty(party string) error {
	if err := ValidateRequired(party, "party"); err != nil {
		return err
	}
	return ValidateMaxLength(party, 50, "party")
}

// ValidateImageURL validates an optional candidate portrait URL
func (v CandidateValidation) ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return nil
	}
	return ValidateURL(imageURL, "image_url")
}

// OrganizerValidation contains validations specific to organizer accounts
type OrganizerValidation struct{}

// ValidateOrganizerEmail validates an organizer email
func (v OrganizerValidation) ValidateOrganizerEmail(email string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	return ValidateEmail(email)
}

// ValidatePassword validates an organizer password
func (v OrganizerValidation) ValidatePassword(password string) error {
	if err := ValidateRequired(password, "password"); err != nil {
		return err
	}
	if err := ValidateMinLength(password, 8, "password"); err != nil {
		return err
	}
	return ValidateMaxLength(password, 72, "password")
}
