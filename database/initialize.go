package database

import (
	"os"

	"eldercare-service/config"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func InitializeDatabase() *sqlx.DB {
	cfg := config.Get()

	dbConn := db.GetDBConnection(db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     cfg.Database.Path,
	})

	err := migrations.Migrate(dbConn, cfg.Database.MigrationsDir)
	if err != nil {
		logger.Error("Error while running migration", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database initialized successfully", zap.String("path", cfg.Database.Path))
	return dbConn
}
