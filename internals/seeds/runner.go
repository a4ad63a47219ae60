package seeds

import (
	"log"

	"gorm.io/gorm"
)

const DefaultRosterFile = "internals/seeds/data_roster.yaml"

// RunAllSeeds: idempotent, aman dijalankan berulang.
func RunAllSeeds(db *gorm.DB, path string) error {
	if path == "" {
		path = DefaultRosterFile
	}

	//* Roster (kelas, siswa, mapel, term)
	stats, err := SeedRosterFromFile(db, path)
	if err != nil {
		return err
	}
	log.Printf("✅ Seed roster selesai: %+v", stats)
	return nil
}
