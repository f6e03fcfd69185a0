package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"eldercare-service/models"
	"eldercare-service/store"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

const (
	metricsCacheKeyPrefix = "dashboard:metrics:"
	metricsCacheTTL       = 5 * time.Minute
)

// DashboardHandler serves the schedule, alert and health metric widgets
type DashboardHandler struct {
	db    *sqlx.DB
	users store.UserStore
	cache cache.Cache
}

func NewDashboardHandler(db *sqlx.DB, users store.UserStore, cache cache.Cache) *DashboardHandler {
	return &DashboardHandler{db: db, users: users, cache: cache}
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	return id, err == nil
}

// ListSchedule handles GET /api/dashboard/schedule
func (h *DashboardHandler) ListSchedule(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	items := []models.ScheduleItem{}
	err := h.db.Select(&items,
		"SELECT id, user_id, time_label, activity, completed, created_at FROM schedule_items WHERE user_id = ? ORDER BY id",
		user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list schedule items", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondData(w, http.StatusOK, "Schedule retrieved successfully", map[string]interface{}{"items": items})
}

// CreateScheduleItem handles POST /api/dashboard/schedule
func (h *DashboardHandler) CreateScheduleItem(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.CreateScheduleItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if fieldErrs := ValidateScheduleItem(req); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	item := models.ScheduleItem{
		UserID:    user.ID,
		TimeLabel: req.Time,
		Activity:  req.Activity,
		CreatedAt: time.Now(),
	}
	result, err := h.db.Exec(
		"INSERT INTO schedule_items (user_id, time_label, activity, completed, created_at) VALUES (?, ?, ?, 0, ?)",
		item.UserID, item.TimeLabel, item.Activity, item.CreatedAt)
	if err != nil {
		logRequest(ctx, "error", "Failed to create schedule item", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create schedule item")
		return
	}

	id, _ := result.LastInsertId()
	item.ID = int(id)

	logRequest(ctx, "info", "Schedule item created", zap.Int("user_id", user.ID), zap.Int("item_id", item.ID))
	respondData(w, http.StatusCreated, "Schedule item created successfully", item)
}

// ToggleScheduleItem handles PUT /api/dashboard/schedule/{id}/toggle
func (h *DashboardHandler) ToggleScheduleItem(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid schedule item ID")
		return
	}

	result, err := h.db.Exec(
		"UPDATE schedule_items SET completed = NOT completed WHERE id = ? AND user_id = ?",
		id, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to toggle schedule item", zap.Error(err), zap.Int("item_id", id))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(w, http.StatusNotFound, "Schedule item not found")
		return
	}

	var item models.ScheduleItem
	if err := h.db.Get(&item,
		"SELECT id, user_id, time_label, activity, completed, created_at FROM schedule_items WHERE id = ?", id); err != nil {
		logRequest(ctx, "error", "Failed to reload schedule item", zap.Error(err), zap.Int("item_id", id))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondData(w, http.StatusOK, "Schedule item updated successfully", item)
}

// ListAlerts handles GET /api/dashboard/alerts - non-dismissed only
func (h *DashboardHandler) ListAlerts(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	alerts := []models.Alert{}
	err := h.db.Select(&alerts,
		"SELECT id, user_id, message, urgency, dismissed, created_at FROM alerts WHERE user_id = ? AND dismissed = 0 ORDER BY created_at DESC",
		user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list alerts", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondData(w, http.StatusOK, "Alerts retrieved successfully", map[string]interface{}{"alerts": alerts})
}

// CreateAlert handles POST /api/dashboard/alerts
func (h *DashboardHandler) CreateAlert(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.CreateAlertRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if fieldErrs := ValidateAlert(req); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	alert := models.Alert{
		UserID:    user.ID,
		Message:   req.Message,
		Urgency:   req.Urgency,
		CreatedAt: time.Now(),
	}
	result, err := h.db.Exec(
		"INSERT INTO alerts (user_id, message, urgency, dismissed, created_at) VALUES (?, ?, ?, 0, ?)",
		alert.UserID, alert.Message, alert.Urgency, alert.CreatedAt)
	if err != nil {
		logRequest(ctx, "error", "Failed to create alert", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	id, _ := result.LastInsertId()
	alert.ID = int(id)

	logRequest(ctx, "info", "Alert created", zap.Int("user_id", user.ID), zap.String("urgency", alert.Urgency))
	respondData(w, http.StatusCreated, "Alert created successfully", alert)
}

// DismissAlert handles PUT /api/dashboard/alerts/{id}/dismiss
func (h *DashboardHandler) DismissAlert(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid alert ID")
		return
	}

	result, err := h.db.Exec(
		"UPDATE alerts SET dismissed = 1 WHERE id = ? AND user_id = ?", id, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to dismiss alert", zap.Error(err), zap.Int("alert_id", id))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}

	logRequest(ctx, "info", "Alert dismissed", zap.Int("alert_id", id), zap.Int("user_id", user.ID))
	respondData(w, http.StatusOK, "Alert dismissed successfully", nil)
}

// Metrics handles GET /api/dashboard/metrics - latest reading per label
func (h *DashboardHandler) Metrics(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	cacheKey := metricsCacheKeyPrefix + strconv.Itoa(user.ID)
	if cached, err := h.cache.Get(cacheKey); err == nil {
		if metrics, ok := decodeCachedMetrics(cached); ok {
			logRequest(ctx, "debug", "Serving metrics from cache", zap.Int("user_id", user.ID))
			respondData(w, http.StatusOK, "Health metrics retrieved successfully", map[string]interface{}{"metrics": metrics})
			return
		}
	}

	metrics := []models.HealthMetric{}
	err := h.db.Select(&metrics, `
		SELECT hm.id, hm.user_id, hm.label, hm.value, hm.status, hm.recorded_at
		FROM health_metrics hm
		JOIN (
			SELECT label, MAX(recorded_at) AS latest
			FROM health_metrics WHERE user_id = ? GROUP BY label
		) t ON hm.label = t.label AND hm.recorded_at = t.latest
		WHERE hm.user_id = ?
		ORDER BY hm.label`, user.ID, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to query health metrics", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if raw, err := json.Marshal(metrics); err == nil {
		h.cache.Set(cacheKey, string(raw), metricsCacheTTL)
	}

	respondData(w, http.StatusOK, "Health metrics retrieved successfully", map[string]interface{}{"metrics": metrics})
}

// RecordMetric handles POST /api/dashboard/metrics
func (h *DashboardHandler) RecordMetric(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.RecordMetricRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if fieldErrs := ValidateMetric(req); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	metric := models.HealthMetric{
		UserID:     user.ID,
		Label:      req.Label,
		Value:      req.Value,
		Status:     req.Status,
		RecordedAt: time.Now(),
	}
	result, err := h.db.Exec(
		"INSERT INTO health_metrics (user_id, label, value, status, recorded_at) VALUES (?, ?, ?, ?, ?)",
		metric.UserID, metric.Label, metric.Value, metric.Status, metric.RecordedAt)
	if err != nil {
		logRequest(ctx, "error", "Failed to record metric", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to record metric")
		return
	}

	id, _ := result.LastInsertId()
	metric.ID = int(id)

	h.cache.Delete(metricsCacheKeyPrefix + strconv.Itoa(user.ID))

	logRequest(ctx, "info", "Health metric recorded", zap.Int("user_id", user.ID), zap.String("label", metric.Label))
	respondData(w, http.StatusCreated, "Health metric recorded successfully", metric)
}

// decodeCachedMetrics tolerates both string and []byte cache values
func decodeCachedMetrics(cached interface{}) ([]models.HealthMetric, bool) {
	var raw []byte
	switch v := cached.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return nil, false
	}

	var metrics []models.HealthMetric
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil, false
	}
	return metrics, true
}
