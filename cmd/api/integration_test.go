//go:build integration
// +build integration

package main

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/justCallMeJeg/eboto/internal/config"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/organizer"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
)

// Integration tests that require a real PostgreSQL database
// Run with: go test -tags=integration

func connectTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}

	db, err := postgres.Connect(cfg)
	require.NoError(t, err, "Should be able to connect to test database")
	return db
}

func TestDatabaseConnection(t *testing.T) {
	db := connectTestDB(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.NoError(t, sqlDB.Ping(), "Should be able to ping the database")
}

func TestDatabaseMigration(t *testing.T) {
	db := connectTestDB(t)
	defer postgres.Close(db)

	assert.NoError(t, postgres.AutoMigrate(db), "Should be able to run migrations")
}

func TestConditionalStatusTransition(t *testing.T) {
	db := connectTestDB(t)
	defer postgres.Close(db)

	require.NoError(t, postgres.AutoMigrate(db))

	organizers := postgres.NewOrganizerRepository(db)
	owner, err := organizer.NewOrganizer(uuid.New().String()+"@example.com", "integration-pass")
	require.NoError(t, err)
	require.NoError(t, organizers.Create(owner))

	repo := postgres.NewElectionRepository(db)
	e := election.NewElection("integration transition", "", owner.ID, time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, repo.Create(e))
	defer repo.Delete(e.ID.String())

	require.NoError(t, repo.UpdateStatus(e.ID.String(), election.StatusPreElection, election.StatusOngoing))

	// A second identical transition must lose the compare-and-set.
	err = repo.UpdateStatus(e.ID.String(), election.StatusPreElection, election.StatusOngoing)
	assert.Error(t, err)
}
