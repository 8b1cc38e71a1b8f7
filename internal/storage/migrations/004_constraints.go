package migrations

import "gorm.io/gorm"

// migration004Up adds the constraints and triggers the application
// logic assumes.
//
// The has_voted trigger rejects any update that would clear the flag,
// so a committed ballot can never be reopened at the SQL level either.
func migration004Up(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE elections
            ADD CONSTRAINT chk_elections_status
            CHECK (status >= 0 AND status <= 3)`,
		`ALTER TABLE elections
            ADD CONSTRAINT chk_elections_voter_count
            CHECK (voter_count >= 0)`,
		`ALTER TABLE elections
            ADD CONSTRAINT fk_elections_owner
            FOREIGN KEY (owner_id) REFERENCES organizers(id) ON DELETE CASCADE`,
		`ALTER TABLE usergroups
            ADD CONSTRAINT fk_usergroups_election
            FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE`,
		`ALTER TABLE voters
            ADD CONSTRAINT fk_voters_election
            FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE`,
		`ALTER TABLE voters
            ADD CONSTRAINT fk_voters_group
            FOREIGN KEY (group_id) REFERENCES usergroups(id) ON DELETE SET NULL`,
		`ALTER TABLE positions
            ADD CONSTRAINT fk_positions_election
            FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE`,
		`ALTER TABLE candidates
            ADD CONSTRAINT fk_candidates_election
            FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE`,
		`ALTER TABLE candidates
            ADD CONSTRAINT fk_candidates_position
            FOREIGN KEY (position_id) REFERENCES positions(id) ON DELETE CASCADE`,
		`ALTER TABLE candidates
            ADD CONSTRAINT fk_candidates_group
            FOREIGN KEY (group_id) REFERENCES usergroups(id) ON DELETE SET NULL`,
		`ALTER TABLE ballot_entries
            ADD CONSTRAINT fk_ballot_entries_election
            FOREIGN KEY (election_id) REFERENCES elections(id) ON DELETE CASCADE`,
		`ALTER TABLE ballot_entries
            ADD CONSTRAINT fk_ballot_entries_voter
            FOREIGN KEY (voter_id) REFERENCES voters(id) ON DELETE CASCADE`,
		`ALTER TABLE ballot_entries
            ADD CONSTRAINT fk_ballot_entries_position
            FOREIGN KEY (position_id) REFERENCES positions(id) ON DELETE CASCADE`,
		`ALTER TABLE ballot_entries
            ADD CONSTRAINT fk_ballot_entries_candidate
            FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE`,
		`CREATE OR REPLACE FUNCTION prevent_has_voted_reset()
            RETURNS TRIGGER AS $$
            BEGIN
                IF OLD.has_voted = TRUE AND NEW.has_voted = FALSE THEN
                    RAISE EXCEPTION 'has_voted cannot be reset once set';
                END IF;
                RETURN NEW;
            END;
            $$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS trg_voters_has_voted_guard ON voters`,
		`CREATE TRIGGER trg_voters_has_voted_guard
            BEFORE UPDATE OF has_voted ON voters
            FOR EACH ROW
            EXECUTE FUNCTION prevent_has_voted_reset()`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration004Down removes the constraints and triggers
func migration004Down(db *gorm.DB) error {
	statements := []string{
		`DROP TRIGGER IF EXISTS trg_voters_has_voted_guard ON voters`,
		`DROP FUNCTION IF EXISTS prevent_has_voted_reset()`,
		`ALTER TABLE ballot_entries DROP CONSTRAINT IF EXISTS fk_ballot_entries_candidate`,
		`ALTER TABLE ballot_entries DROP CONSTRAINT IF EXISTS fk_ballot_entries_position`,
		`ALTER TABLE ballot_entries DROP CONSTRAINT IF EXISTS fk_ballot_entries_voter`,
		`ALTER TABLE ballot_entries DROP CONSTRAINT IF EXISTS fk_ballot_entries_election`,
		`ALTER TABLE candidates DROP CONSTRAINT IF EXISTS fk_candidates_group`,
		`ALTER TABLE candidates DROP CONSTRAINT IF EXISTS fk_candidates_position`,
		`ALTER TABLE candidates DROP CONSTRAINT IF EXISTS fk_candidates_election`,
		`ALTER TABLE positions DROP CONSTRAINT IF EXISTS fk_positions_election`,
		`ALTER TABLE voters DROP CONSTRAINT IF EXISTS fk_voters_group`,
		`ALTER TABLE voters DROP CONSTRAINT IF EXISTS fk_voters_election`,
		`ALTER TABLE usergroups DROP CONSTRAINT IF EXISTS fk_usergroups_election`,
		`ALTER TABLE elections DROP CONSTRAINT IF EXISTS fk_elections_owner`,
		`ALTER TABLE elections DROP CONSTRAINT IF EXISTS chk_elections_voter_count`,
		`ALTER TABLE elections DROP CONSTRAINT IF EXISTS chk_elections_status`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
