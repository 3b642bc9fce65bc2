package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	DB = connection

	// 1. Base tables with no dependencies
	DB.AutoMigrate(
		&User{},
		&Service{},
		&SiteSettings{},
		&AdminLog{},
	)

	// 2. Tables referencing the base ones
	DB.AutoMigrate(&Booking{})

	if os.Getenv("SEED_SAMPLE_DATA") == "true" {
		if err := SeedSampleData(DB); err != nil {
			log.Printf("Error seeding sample data: %v", err)
		}
	}
}
