// Package services holds the application logic between the HTTP handlers
// and the repositories.
package services

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
	"github.com/justCallMeJeg/eboto/internal/validation"
)

// ElectionService manages election lifecycle and ownership.
type ElectionService struct {
	elections postgres.ElectionRepository
	log       *log.Logger
}

// NewElectionService creates an election service.
func NewElectionService(elections postgres.ElectionRepository) *ElectionService {
	return &ElectionService{
		elections: elections,
		log:       logger.Service("election"),
	}
}

// Create creates a new election in the Pre-Election state owned by the
// given organizer.
func (s *ElectionService) Create(ownerID, name, description string, startDate, endDate time.Time) (*election.Election, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid owner ID format", common.ErrNotFound)
	}

	v := validation.ElectionValidation{}
	fieldErrs := &common.ValidationError{}
	if err := v.ValidateName(name); err != nil {
		fieldErrs.Add("name", err.Error())
	}
	if err := v.ValidateDescription(description); err != nil {
		fieldErrs.Add("description", err.Error())
	}
	if err := validation.ValidateDateRange(startDate, endDate); err != nil {
		fieldErrs.Add("end_date", err.Error())
	}
	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	e := election.NewElection(name, description, ownerUUID, startDate, endDate)
	if err := s.elections.Create(e); err != nil {
		return nil, err
	}

	s.log.Info("election created", "election_id", e.ID, "owner_id", ownerID)
	return e, nil
}

// Get returns an election by ID.
func (s *ElectionService) Get(electionID string) (*election.Election, error) {
	return s.elections.GetByID(electionID)
}

// GetOwned returns an election only if the requester owns it.
func (s *ElectionService) GetOwned(requesterID, electionID string) (*election.Election, error) {
	e, err := s.elections.GetByID(electionID)
	if err != nil {
		return nil, err
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil || !e.IsOwner(requesterUUID) {
		return nil, fmt.Errorf("%w: election %s", common.ErrUnauthorized, electionID)
	}

	return e, nil
}

// ListByOwner returns all elections owned by an organizer.
func (s *ElectionService) ListByOwner(ownerID string) ([]*election.Election, error) {
	return s.elections.GetByOwner(ownerID)
}

// Start transitions an election from Pre-Election to Ongoing. Only the
// owner may start it, and only from Pre-Election; the repository applies
// the transition conditionally so a concurrent start cannot race past
// the status check.
func (s *ElectionService) Start(requesterID, electionID string) (*election.Election, error) {
	e, err := s.GetOwned(requesterID, electionID)
	if err != nil {
		return nil, err
	}

	if err := e.UpdateStatus(election.StatusOngoing); err != nil {
		return nil, err
	}

	if err := s.elections.UpdateStatus(electionID, election.StatusPreElection, election.StatusOngoing); err != nil {
		return nil, err
	}

	s.log.Info("election started", "election_id", electionID)
	return e, nil
}

// Delete removes an election and everything under it. Owner only.
func (s *ElectionService) Delete(requesterID, electionID string) error {
	if _, err := s.GetOwned(requesterID, electionID); err != nil {
		return err
	}

	if err := s.elections.Delete(electionID); err != nil {
		return err
	}

	s.log.Info("election deleted", "election_id", electionID)
	return nil
}
