package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"eldercare-service/models"
	"eldercare-service/store"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// WellbeingHandler handles mood and journal entries. Entries are append-only;
// there is no update or delete surface.
type WellbeingHandler struct {
	db    *sqlx.DB
	users store.UserStore
}

func NewWellbeingHandler(db *sqlx.DB, users store.UserStore) *WellbeingHandler {
	return &WellbeingHandler{db: db, users: users}
}

// CreateMood handles POST /api/wellbeing/moods
func (h *WellbeingHandler) CreateMood(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.CreateMoodEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if fieldErrs := ValidateMoodEntry(req); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	now := time.Now()
	recordedAt := now
	if req.RecordedAt != nil {
		// Entries may be backdated to when the mood was actually felt
		recordedAt = *req.RecordedAt
	}

	entry := models.MoodEntry{
		UserID:       user.ID,
		Mood:         req.Mood,
		Note:         strings.TrimSpace(req.Note),
		HasVoiceNote: req.HasVoiceNote,
		Images:       models.StringList(req.Images),
		RecordedAt:   recordedAt,
		CreatedAt:    now,
	}

	result, err := h.db.Exec(`
		INSERT INTO mood_entries (user_id, mood, note, has_voice_note, images, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Mood, entry.Note, entry.HasVoiceNote, entry.Images, entry.RecordedAt, entry.CreatedAt)
	if err != nil {
		logRequest(ctx, "error", "Failed to store mood entry", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to save mood entry")
		return
	}

	id, _ := result.LastInsertId()
	entry.ID = int(id)

	logRequest(ctx, "info", "Mood entry created", zap.Int("user_id", user.ID), zap.String("mood", entry.Mood))
	respondData(w, http.StatusCreated, "Mood entry saved successfully", entry)
}

// ListMoods handles GET /api/wellbeing/moods, most recent first
func (h *WellbeingHandler) ListMoods(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	entries := []models.MoodEntry{}
	err := h.db.Select(&entries, `
		SELECT id, user_id, mood, note, has_voice_note, images, recorded_at, created_at
		FROM mood_entries WHERE user_id = ? ORDER BY recorded_at DESC`, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list mood entries", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondData(w, http.StatusOK, "Mood entries retrieved successfully", map[string]interface{}{"entries": entries})
}

// CreateJournal handles POST /api/wellbeing/journal
func (h *WellbeingHandler) CreateJournal(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.CreateJournalEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if fieldErrs := ValidateJournalEntry(req); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	now := time.Now()
	recordedAt := now
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	entry := models.JournalEntry{
		UserID:     user.ID,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		Images:     models.StringList(req.Images),
		RecordedAt: recordedAt,
		CreatedAt:  now,
	}

	result, err := h.db.Exec(`
		INSERT INTO journal_entries (user_id, title, content, images, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.Title, entry.Content, entry.Images, entry.RecordedAt, entry.CreatedAt)
	if err != nil {
		logRequest(ctx, "error", "Failed to store journal entry", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to save journal entry")
		return
	}

	id, _ := result.LastInsertId()
	entry.ID = int(id)

	logRequest(ctx, "info", "Journal entry created", zap.Int("user_id", user.ID))
	respondData(w, http.StatusCreated, "Journal entry saved successfully", entry)
}

// ListJournal handles GET /api/wellbeing/journal, most recent first
func (h *WellbeingHandler) ListJournal(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	entries := []models.JournalEntry{}
	err := h.db.Select(&entries, `
		SELECT id, user_id, title, content, images, recorded_at, created_at
		FROM journal_entries WHERE user_id = ? ORDER BY recorded_at DESC`, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list journal entries", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondData(w, http.StatusOK, "Journal entries retrieved successfully", map[string]interface{}{"entries": entries})
}
