package server

import (
	"os"
	"time"

	"eldercare-service/config"
	"eldercare-service/database"
	"eldercare-service/models"
	"eldercare-service/store"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const demoPassword = "password123"

// SeedDemo provisions the demo account with sample dashboard data so a fresh
// install has something to show. Safe to run more than once.
func SeedDemo() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	if err := config.Load(); err != nil {
		logger.Error("Failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	dbConn := database.InitializeDatabase()
	defer dbConn.Close()

	users := store.NewSQLStore(dbConn)

	if existing, err := users.GetByIdentifier("shelly"); err == nil {
		logger.Info("Demo user already present, skipping", zap.Int("user_id", existing.ID))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 12)
	if err != nil {
		logger.Error("Failed to hash demo password", zap.Error(err))
		os.Exit(1)
	}

	age := 72
	gender := "Female"
	caregiver := "Sarah Johnson"
	user := &models.User{
		Username:         "shelly",
		Email:            "shelly@eldercare.app",
		PasswordHash:     string(hash),
		FullName:         "Shelly Thompson",
		Age:              &age,
		Gender:           &gender,
		PrimaryCaregiver: &caregiver,
	}
	if err := users.Create(user); err != nil {
		logger.Error("Failed to create demo user", zap.Error(err))
		os.Exit(1)
	}

	now := time.Now()

	schedule := []struct {
		timeLabel string
		activity  string
	}{
		{"8:00 AM", "Morning medication"},
		{"9:30 AM", "Morning walk"},
		{"12:00 PM", "Lunch with Sarah"},
		{"3:00 PM", "Doctor appointment"},
	}
	for _, s := range schedule {
		_, err := dbConn.Exec(
			"INSERT INTO schedule_items (user_id, time_label, activity, completed, created_at) VALUES (?, ?, ?, 0, ?)",
			user.ID, s.timeLabel, s.activity, now)
		if err != nil {
			logger.Error("Failed to seed schedule item", zap.Error(err))
			os.Exit(1)
		}
	}

	alerts := []struct {
		message string
		urgency string
	}{
		{"Blood pressure reading due today", "medium"},
		{"Medication refill needed in 3 days", "low"},
	}
	for _, a := range alerts {
		_, err := dbConn.Exec(
			"INSERT INTO alerts (user_id, message, urgency, dismissed, created_at) VALUES (?, ?, ?, 0, ?)",
			user.ID, a.message, a.urgency, now)
		if err != nil {
			logger.Error("Failed to seed alert", zap.Error(err))
			os.Exit(1)
		}
	}

	metrics := []struct {
		label  string
		value  string
		status string
	}{
		{"Heart Rate", "72 bpm", "normal"},
		{"Blood Pressure", "128/82", "attention"},
		{"Sleep", "7.5 hrs", "normal"},
	}
	for _, m := range metrics {
		_, err := dbConn.Exec(
			"INSERT INTO health_metrics (user_id, label, value, status, recorded_at) VALUES (?, ?, ?, ?, ?)",
			user.ID, m.label, m.value, m.status, now)
		if err != nil {
			logger.Error("Failed to seed health metric", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("Demo data seeded", zap.Int("user_id", user.ID))
}
