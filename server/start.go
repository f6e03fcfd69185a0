package server

import (
	"context"
	"net/http"
	"os"

	cachepackage "eldercare-service/cache"
	"eldercare-service/config"
	"eldercare-service/database"
	"eldercare-service/handlers"
	"eldercare-service/store"
	"eldercare-service/token"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// checkAuth validates the bearer JWT on protected routes
func checkAuth(r *http.Request) (bool, httpserver.RequestAuth) {
	raw, err := token.FromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return false, httpserver.RequestAuth{}
	}

	claims, err := token.Validate(raw)
	if err != nil {
		return false, httpserver.RequestAuth{}
	}

	return true, httpserver.RequestAuth{
		Type:   "bearer",
		Client: claims.Username,
		Claims: map[string]interface{}{
			"user_id":  claims.UserID,
			"username": claims.Username,
		},
	}
}

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting Eldercare Service...")

	if err := config.Load(); err != nil {
		logger.Error("Failed to load configuration", zap.Error(err))
		os.Exit(1)
	}
	cfg := config.Get()

	// Initialize database
	dbConn := database.InitializeDatabase()
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache()
	defer cache.Close()

	// Select the user storage backend
	var users store.UserStore
	switch cfg.Storage.Backend {
	case "file":
		users = store.NewFileStore(cfg.Storage.FilePath)
		logger.Info("Using file storage backend", zap.String("path", cfg.Storage.FilePath))
	default:
		users = store.NewSQLStore(dbConn)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, cache)
	userHandler := handlers.NewUserHandler(users, cache)
	chatHandler := handlers.NewChatHandler(dbConn, users)
	wellbeingHandler := handlers.NewWellbeingHandler(dbConn, users)
	dashboardHandler := handlers.NewDashboardHandler(dbConn, users, cache)

	// Create HTTP server with authentication
	server := httpserver.New(cfg.Server.Port, checkAuth)

	// Register routes
	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "eldercare-service"}`))
	}))

	server.Register(httpserver.Route{
		Name:     "Signup",
		Method:   "POST",
		Path:     "/api/auth/signup",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Signup))

	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/api/auth/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(authHandler.Login))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "POST",
		Path:     "/api/auth/logout",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(authHandler.Logout))

	server.Register(httpserver.Route{
		Name:     "GetProfile",
		Method:   "GET",
		Path:     "/api/users/me",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.Me))

	server.Register(httpserver.Route{
		Name:     "UpdateProfile",
		Method:   "PUT",
		Path:     "/api/users/me",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.UpdateMe))

	server.Register(httpserver.Route{
		Name:     "UpdateSettings",
		Method:   "PUT",
		Path:     "/api/users/me/settings",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.UpdateSettings))

	server.Register(httpserver.Route{
		Name:     "DeactivateAccount",
		Method:   "DELETE",
		Path:     "/api/users/me",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.DeactivateMe))

	server.Register(httpserver.Route{
		Name:     "UserStats",
		Method:   "GET",
		Path:     "/api/users/stats",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.Stats))

	server.Register(httpserver.Route{
		Name:     "CreateChatSession",
		Method:   "POST",
		Path:     "/api/chat/sessions",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(chatHandler.CreateSession))

	server.Register(httpserver.Route{
		Name:     "ListChatSessions",
		Method:   "GET",
		Path:     "/api/chat/sessions",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(chatHandler.ListSessions))

	server.Register(httpserver.Route{
		Name:     "GetChatSession",
		Method:   "GET",
		Path:     "/api/chat/sessions/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(chatHandler.GetSession))

	server.Register(httpserver.Route{
		Name:     "SetChatSessionMood",
		Method:   "PUT",
		Path:     "/api/chat/sessions/{id}/mood",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(chatHandler.SetMood))

	server.Register(httpserver.Route{
		Name:     "DeleteChatSession",
		Method:   "DELETE",
		Path:     "/api/chat/sessions/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(chatHandler.DeleteSession))

	server.Register(httpserver.Route{
		Name:     "SendChatMessage",
		Method:   "POST",
		Path:     "/api/chat/sessions/{id}/messages",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(chatHandler.SendMessage))

	server.Register(httpserver.Route{
		Name:     "CreateMoodEntry",
		Method:   "POST",
		Path:     "/api/wellbeing/moods",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(wellbeingHandler.CreateMood))

	server.Register(httpserver.Route{
		Name:     "ListMoodEntries",
		Method:   "GET",
		Path:     "/api/wellbeing/moods",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(wellbeingHandler.ListMoods))

	server.Register(httpserver.Route{
		Name:     "CreateJournalEntry",
		Method:   "POST",
		Path:     "/api/wellbeing/journal",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(wellbeingHandler.CreateJournal))

	server.Register(httpserver.Route{
		Name:     "ListJournalEntries",
		Method:   "GET",
		Path:     "/api/wellbeing/journal",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(wellbeingHandler.ListJournal))

	server.Register(httpserver.Route{
		Name:     "ListSchedule",
		Method:   "GET",
		Path:     "/api/dashboard/schedule",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.ListSchedule))

	server.Register(httpserver.Route{
		Name:     "CreateScheduleItem",
		Method:   "POST",
		Path:     "/api/dashboard/schedule",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.CreateScheduleItem))

	server.Register(httpserver.Route{
		Name:     "ToggleScheduleItem",
		Method:   "PUT",
		Path:     "/api/dashboard/schedule/{id}/toggle",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.ToggleScheduleItem))

	server.Register(httpserver.Route{
		Name:     "ListAlerts",
		Method:   "GET",
		Path:     "/api/dashboard/alerts",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.ListAlerts))

	server.Register(httpserver.Route{
		Name:     "CreateAlert",
		Method:   "POST",
		Path:     "/api/dashboard/alerts",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.CreateAlert))

	server.Register(httpserver.Route{
		Name:     "DismissAlert",
		Method:   "PUT",
		Path:     "/api/dashboard/alerts/{id}/dismiss",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.DismissAlert))

	server.Register(httpserver.Route{
		Name:     "HealthMetrics",
		Method:   "GET",
		Path:     "/api/dashboard/metrics",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.Metrics))

	server.Register(httpserver.Route{
		Name:     "RecordHealthMetric",
		Method:   "POST",
		Path:     "/api/dashboard/metrics",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(dashboardHandler.RecordMetric))

	logger.Info("Eldercare Service started on port " + cfg.Server.Port)
	logger.Info("Health check: GET /health")
	logger.Info("API endpoints under /api: auth, users, chat, wellbeing, dashboard")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
