package migrations

import "gorm.io/gorm"

// migration005Up creates reporting views and maintenance functions.
//
// reconcile_voter_counts exists for operators: the application keeps
// voter_count in step transactionally, but a manual roster edit in SQL
// would drift it.
func migration005Up(db *gorm.DB) error {
	statements := []string{
		`CREATE OR REPLACE FUNCTION reconcile_voter_counts()
            RETURNS void AS $$
            BEGIN
                UPDATE elections e
                SET voter_count = (
                    SELECT COUNT(*) FROM voters v WHERE v.election_id = e.id
                );
            END;
            $$ LANGUAGE plpgsql`,
		`CREATE OR REPLACE VIEW candidate_vote_counts AS
            SELECT
                c.election_id,
                c.position_id,
                c.id AS candidate_id,
                c.display_name,
                c.party,
                COUNT(be.id) AS vote_count
            FROM candidates c
            LEFT JOIN ballot_entries be ON be.candidate_id = c.id
            GROUP BY c.election_id, c.position_id, c.id, c.display_name, c.party`,
		`CREATE OR REPLACE VIEW election_turnout AS
            SELECT
                e.id AS election_id,
                e.voter_count AS registered_voters,
                COUNT(v.id) FILTER (WHERE v.has_voted) AS votes_cast,
                CASE
                    WHEN e.voter_count = 0 THEN 0
                    ELSE ROUND(
                        COUNT(v.id) FILTER (WHERE v.has_voted)::numeric
                        / e.voter_count * 100, 2)
                END AS turnout_percent
            FROM elections e
            LEFT JOIN voters v ON v.election_id = e.id
            GROUP BY e.id, e.voter_count`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration005Down drops the views and functions
func migration005Down(db *gorm.DB) error {
	statements := []string{
		`DROP VIEW IF EXISTS election_turnout`,
		`DROP VIEW IF EXISTS candidate_vote_counts`,
		`DROP FUNCTION IF EXISTS reconcile_voter_counts()`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
