package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"eldercare-service/models"
	"eldercare-service/store"
	"eldercare-service/token"

	"github.com/umakantv/go-utils/httpserver"
	logger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Response is the envelope every /api endpoint returns
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func respondData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

func respondValidation(w http.ResponseWriter, errs []FieldError) {
	writeJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// logRequest logs the request with route/auth details from the server context.
// Shared between all handlers.
func logRequest(ctx context.Context, level string, message string, fields ...zap.Field) {
	routeName := httpserver.GetRouteName(ctx)
	method := httpserver.GetRouteMethod(ctx)
	path := httpserver.GetRoutePath(ctx)
	auth := httpserver.GetRequestAuth(ctx)

	logMsg := time.Now().Format("2006-01-02 15:04:05") + " - " + routeName + " - " + method + " - " + path
	if auth != nil {
		logMsg += " - client:" + auth.Client
	}
	if message != "" {
		logMsg += " - " + message
	}

	allFields := append([]zap.Field{
		zap.String("route", routeName),
		zap.String("method", method),
		zap.String("path", path),
	}, fields...)

	switch level {
	case "info":
		logger.Info(logMsg, allFields...)
	case "error":
		logger.Error(logMsg, allFields...)
	case "debug":
		logger.Debug(logMsg, allFields...)
	}
}

// currentUser resolves the bearer token to an active user record. On failure
// it writes the 401 response itself and returns ok=false.
func currentUser(ctx context.Context, w http.ResponseWriter, r *http.Request, users store.UserStore) (*models.User, bool) {
	raw, err := token.FromHeader(r.Header.Get("Authorization"))
	if err != nil {
		logRequest(ctx, "error", "Missing bearer token")
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}

	claims, err := token.Validate(raw)
	if err != nil {
		logRequest(ctx, "error", "Token rejected", zap.Error(err))
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}

	user, err := users.GetByID(claims.UserID)
	if err != nil || !user.IsActive {
		logRequest(ctx, "error", "Token user missing or deactivated", zap.Int("user_id", claims.UserID))
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}

	return user, true
}
