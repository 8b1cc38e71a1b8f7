package migrations

import "gorm.io/gorm"

// migration002Up creates the core tables from the domain models
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops the core tables in reverse dependency order
func migration002Down(db *gorm.DB) error {
	tables := []string{
		"ballot_entries",
		"candidates",
		"positions",
		"voters",
		"usergroups",
		"elections",
		"organizers",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
