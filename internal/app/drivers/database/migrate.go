package database

import (
	"database/sql"
	"delivery-slot-service/internal/app/config"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
)

const (
	MigrationDir   = "internal/migration"
	migrationTable = "booking_schema_migrations"
)

func PostgresDSN(driverConfig *config.DriverConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		driverConfig.PostgresDB.Host,
		driverConfig.PostgresDB.Port,
		driverConfig.PostgresDB.Username,
		driverConfig.PostgresDB.Password,
		driverConfig.PostgresDB.DBName,
		driverConfig.PostgresDB.SSLMode)
}

// RunMigrations applies (or rolls back, for migrate.Down) the sql files in dir.
// max caps how many are applied, 0 means all.
func RunMigrations(db *sql.DB, dir string, direction migrate.MigrationDirection, max int) (int, error) {
	migrate.SetTable(migrationTable)
	source := &migrate.FileMigrationSource{Dir: dir}
	return migrate.ExecMax(db, "postgres", source, direction, max)
}
