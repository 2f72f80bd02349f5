package database

import (
	"database/sql"
	"delivery-slot-service/internal/app/config"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func NewPostgresDB(driverConfig *config.DriverConfig, log *zap.Logger) *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN(driverConfig))
	if err != nil {
		log.Fatal("Failed to open postgres database connection", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	err = db.Ping()
	if err != nil {
		log.Fatal("Failed to connect to postgres database", zap.Error(err))
	}

	log.Info("Successfully connected to postgres database",
		zap.String("host", driverConfig.PostgresDB.Host),
		zap.String("db_name", driverConfig.PostgresDB.DBName))

	return db
}
