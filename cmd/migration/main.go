package main

import (
	"database/sql"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/app/drivers/database"
	"delivery-slot-service/internal/app/drivers/logger"
	"flag"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	down := flag.Bool("down", false, "roll back instead of applying")
	steps := flag.Int("steps", 0, "number of migrations to apply or roll back, 0 means all")
	dir := flag.String("dir", database.MigrationDir, "directory holding the migration files")
	flag.Parse()

	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewLogrusLogger(driverConfig, internalConfig)

	migrationDir := *dir
	if !filepath.IsAbs(migrationDir) {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Error getting working directory: %v", err)
		}
		migrationDir = filepath.Join(wd, migrationDir)
	}

	db, err := sql.Open("postgres", database.PostgresDSN(driverConfig))
	if err != nil {
		log.Fatalf("Error opening postgres connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Error connecting to postgres: %v", err)
	}

	direction := migrate.Up
	if *down {
		direction = migrate.Down
	}

	log.WithField("dir", migrationDir).WithField("down", *down).Info("Running migrations")
	n, err := database.RunMigrations(db, migrationDir, direction, *steps)
	if err != nil {
		log.Fatalf("Error executing migration: %v", err)
	}

	log.Infof("Applied %d migrations!", n)
}
