package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"deployment-tracker/internal/config"
	"deployment-tracker/internal/database"
	"deployment-tracker/internal/seed"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	file := flag.String("file", "scripts/data/initial_data.yaml", "seed file to load")
	flag.Parse()

	log.Println("🚀 Loading initial data from", *file)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	result, err := seed.LoadFile(db, *file)
	if err != nil {
		log.Fatalf("Failed to load initial data: %v", err)
	}

	log.Printf("✅ Initial data loaded: %d statuses, %d technicians, %d departments, %d users created",
		result.Statuses, result.Technicians, result.Departments, result.Users)
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(cfg *config.Config, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	// Suppress GORM's "record not found" noise from the existence checks
	opts := &database.Options{
		Driver:   cfg.DatabaseDriver,
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(cfg.DatabaseURL, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}
