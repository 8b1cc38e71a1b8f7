package migrations

import (
	"github.com/justCallMeJeg/eboto/internal/domain/ballot"
	"github.com/justCallMeJeg/eboto/internal/domain/election"
	"github.com/justCallMeJeg/eboto/internal/domain/group"
	"github.com/justCallMeJeg/eboto/internal/domain/organizer"
	"github.com/justCallMeJeg/eboto/internal/domain/position"
	"github.com/justCallMeJeg/eboto/internal/domain/voter"
)

// AllModels returns all domain models in dependency order for migration
func AllModels() []interface{} {
	return []interface{}{
		&organizer.Organizer{},
		&election.Election{},
		&group.Group{},
		&voter.Voter{},
		&position.Position{},
		&position.Candidate{},
		&ballot.Entry{},
	}
}
