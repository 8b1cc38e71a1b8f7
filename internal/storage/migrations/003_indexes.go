package migrations

import "gorm.io/gorm"

// migration003Up creates the uniqueness and lookup indexes.
//
// The two unique indexes carry correctness weight: one voter row per
// email within an election, and at most one ballot entry per voter and
// position.
func migration003Up(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_voters_election_email
            ON voters (election_id, email)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ballot_entries_voter_position
            ON ballot_entries (voter_id, position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_elections_owner_id
            ON elections (owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voters_election_id
            ON voters (election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_usergroups_election_id
            ON usergroups (election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_election_id
            ON positions (election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_election_id
            ON candidates (election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_position_id
            ON candidates (position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ballot_entries_election_id
            ON ballot_entries (election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ballot_entries_candidate_id
            ON ballot_entries (candidate_id)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the indexes created by migration003Up
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"idx_voters_election_email",
		"idx_ballot_entries_voter_position",
		"idx_elections_owner_id",
		"idx_voters_election_id",
		"idx_usergroups_election_id",
		"idx_positions_election_id",
		"idx_candidates_election_id",
		"idx_candidates_position_id",
		"idx_ballot_entries_election_id",
		"idx_ballot_entries_candidate_id",
	}

	for _, index := range indexes {
		if err := db.Exec("DROP INDEX IF EXISTS " + index).Error; err != nil {
			return err
		}
	}

	return nil
}
