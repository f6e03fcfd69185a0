package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"eldercare-service/models"
	"eldercare-service/store"

	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

const (
	statsCacheKey = "users:stats"
	statsCacheTTL = 5 * time.Minute
)

// UserHandler handles profile, settings and account lifecycle operations
type UserHandler struct {
	users store.UserStore
	cache cache.Cache
}

func NewUserHandler(users store.UserStore, cache cache.Cache) *UserHandler {
	return &UserHandler{users: users, cache: cache}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Profile retrieved", zap.Int("user_id", user.ID))
	respondData(w, http.StatusOK, "Profile retrieved successfully", map[string]interface{}{"user": user})
}

// UpdateMe handles PUT /api/users/me
func (h *UserHandler) UpdateMe(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid profile update body", zap.Error(err))
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if fieldErrs := ValidateProfileUpdate(req); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	updated, err := h.users.UpdateProfile(user.ID, req)
	switch err {
	case nil:
	case store.ErrUsernameTaken, store.ErrEmailTaken:
		logRequest(ctx, "info", "Profile update conflict", zap.Int("user_id", user.ID))
		respondError(w, http.StatusConflict, err.Error())
		return
	case store.ErrNotFound:
		respondError(w, http.StatusNotFound, "User not found")
		return
	default:
		logRequest(ctx, "error", "Failed to update profile", zap.Error(err), zap.Int("user_id", user.ID))
		respondError(w, http.StatusInternalServerError, "Server error during profile update")
		return
	}

	logRequest(ctx, "info", "Profile updated", zap.Int("user_id", user.ID))
	respondData(w, http.StatusOK, "Profile updated successfully", map[string]interface{}{"user": updated})
}

// UpdateSettings handles PUT /api/users/me/settings
func (h *UserHandler) UpdateSettings(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var patch models.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		logRequest(ctx, "error", "Invalid settings body", zap.Error(err))
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if fieldErrs := ValidateSettingsPatch(patch); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	updated, err := h.users.UpdateSettings(user.ID, patch)
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to update settings", zap.Error(err), zap.Int("user_id", user.ID))
		respondError(w, http.StatusInternalServerError, "Server error during settings update")
		return
	}

	logRequest(ctx, "info", "Settings updated", zap.Int("user_id", user.ID))
	respondData(w, http.StatusOK, "Settings updated successfully", map[string]interface{}{"user": updated})
}

// DeactivateMe handles DELETE /api/users/me - soft delete only
func (h *UserHandler) DeactivateMe(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	if err := h.users.Deactivate(user.ID); err != nil {
		logRequest(ctx, "error", "Failed to deactivate account", zap.Error(err), zap.Int("user_id", user.ID))
		respondError(w, http.StatusInternalServerError, "Server error during account deactivation")
		return
	}

	h.cache.Delete(statsCacheKey)

	logRequest(ctx, "info", "Account deactivated", zap.Int("user_id", user.ID))
	respondData(w, http.StatusOK, "Account deactivated successfully", nil)
}

// Stats handles GET /api/users/stats, cached for five minutes
func (h *UserHandler) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(ctx, w, r, h.users); !ok {
		return
	}

	if cached, err := h.cache.Get(statsCacheKey); err == nil {
		if stats, ok := decodeCachedStats(cached); ok {
			logRequest(ctx, "debug", "Serving user stats from cache")
			respondData(w, http.StatusOK, "User statistics retrieved successfully", stats)
			return
		}
	}

	stats, err := h.users.Stats()
	if err != nil {
		logRequest(ctx, "error", "Failed to compute user stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if raw, err := json.Marshal(stats); err == nil {
		h.cache.Set(statsCacheKey, string(raw), statsCacheTTL)
	}

	logRequest(ctx, "info", "User stats computed", zap.Int("total", stats.TotalUsers))
	respondData(w, http.StatusOK, "User statistics retrieved successfully", stats)
}

// decodeCachedStats tolerates both string and []byte cache values
func decodeCachedStats(cached interface{}) (*models.UserStats, bool) {
	var raw []byte
	switch v := cached.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return nil, false
	}

	var stats models.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}
