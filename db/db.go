package db

import (
	"fmt"
	"log"
	"os"

	"sporttrack/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Club{}, &models.User{},
		&models.Item{},
		&models.Reservation{}, &models.ReservationItem{}, &models.DamageReport{},
	); err != nil {
		return err
	}

	// The overlap scan only ever touches active rows of a single day.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_active_by_date
	  ON %s (date)
	  WHERE status = 'active';
	`, models.ReservationTable, models.ReservationTable)).Error; err != nil {
		return err
	}

	// Cascade deletion resolves club membership by club_id.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_by_club
	  ON %s (club_id)
	  WHERE club_id IS NOT NULL;
	`, models.UserTable, models.UserTable)).Error; err != nil {
		return err
	}

	return nil
}
