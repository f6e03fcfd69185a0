package handlers

import (
	"context"
	"database/sql"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"eldercare-service/models"
	"eldercare-service/store"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// greeting seeds every new chat session
const greeting = "Hi, I'm Mitra, your AI companion. I'm here to support you with reminders, wellness, or just a friendly chat. How can I help you today?"

// cannedResponses is the assistant's whole vocabulary. Replies are picked at
// random; there is no language model behind this.
var cannedResponses = []string{
	"I understand. Let me help you with that. Is there anything specific you'd like to know?",
	"That's a great question! Based on your health profile, I'd recommend checking with your doctor.",
	"I'm here to support you. Would you like me to set a reminder for that?",
	"Thank you for sharing that with me. How are you feeling today?",
	"I can help you with medication reminders, health tracking, or just have a friendly conversation.",
}

func assistantReply() string {
	return cannedResponses[rand.Intn(len(cannedResponses))]
}

// ChatHandler handles chat sessions and messages
type ChatHandler struct {
	db    *sqlx.DB
	users store.UserStore
}

func NewChatHandler(db *sqlx.DB, users store.UserStore) *ChatHandler {
	return &ChatHandler{db: db, users: users}
}

// getOwnedSession loads a session only if it belongs to the user
func (h *ChatHandler) getOwnedSession(sessionID string, userID int) (*models.ChatSession, error) {
	var session models.ChatSession
	err := h.db.Get(&session,
		"SELECT id, user_id, title, mood, created_at, updated_at FROM chat_sessions WHERE id = ? AND user_id = ?",
		sessionID, userID)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (h *ChatHandler) insertMessage(sessionID, sender, text string, hasAudio bool) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Sender:    sender,
		Text:      text,
		HasAudio:  hasAudio,
		CreatedAt: time.Now(),
	}
	_, err := h.db.Exec(
		"INSERT INTO chat_messages (id, session_id, sender, text, has_audio, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		msg.ID, msg.SessionID, msg.Sender, msg.Text, msg.HasAudio, msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// CreateSession handles POST /api/chat/sessions
func (h *ChatHandler) CreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.CreateChatSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New chat"
	}

	now := time.Now()
	session := &models.ChatSession{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := h.db.Exec(
		"INSERT INTO chat_sessions (id, user_id, title, mood, created_at, updated_at) VALUES (?, ?, ?, '', ?, ?)",
		session.ID, session.UserID, session.Title, now, now)
	if err != nil {
		logRequest(ctx, "error", "Failed to create chat session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create chat session")
		return
	}

	greetingMsg, err := h.insertMessage(session.ID, "assistant", greeting, true)
	if err != nil {
		logRequest(ctx, "error", "Failed to seed greeting", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create chat session")
		return
	}

	logRequest(ctx, "info", "Chat session created", zap.String("session_id", session.ID), zap.Int("user_id", user.ID))

	respondData(w, http.StatusCreated, "Chat session created successfully", models.ChatSessionDetail{
		Session:  session,
		Messages: []models.ChatMessage{*greetingMsg},
	})
}

// ListSessions handles GET /api/chat/sessions
func (h *ChatHandler) ListSessions(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	sessions := []models.ChatSession{}
	err := h.db.Select(&sessions,
		"SELECT id, user_id, title, mood, created_at, updated_at FROM chat_sessions WHERE user_id = ? ORDER BY updated_at DESC",
		user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to list chat sessions", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondData(w, http.StatusOK, "Chat sessions retrieved successfully", map[string]interface{}{"sessions": sessions})
}

// GetSession handles GET /api/chat/sessions/{id} with the ordered transcript
func (h *ChatHandler) GetSession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["id"]
	session, err := h.getOwnedSession(sessionID, user.ID)
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, "Chat session not found")
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Failed to query chat session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	messages := []models.ChatMessage{}
	err = h.db.Select(&messages,
		"SELECT id, session_id, sender, text, has_audio, created_at FROM chat_messages WHERE session_id = ? ORDER BY created_at, rowid",
		sessionID)
	if err != nil {
		logRequest(ctx, "error", "Failed to query chat messages", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}

	respondData(w, http.StatusOK, "Chat session retrieved successfully", models.ChatSessionDetail{
		Session:  session,
		Messages: messages,
	})
}

// SetMood handles PUT /api/chat/sessions/{id}/mood
func (h *ChatHandler) SetMood(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.SetSessionMoodRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.MoodLabels[req.Mood] {
		respondValidation(w, []FieldError{{"mood", "Mood must be happy, okay, neutral, sad, or upset", req.Mood}})
		return
	}

	sessionID := mux.Vars(r)["id"]
	result, err := h.db.Exec(
		"UPDATE chat_sessions SET mood = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		req.Mood, time.Now(), sessionID, user.ID)
	if err != nil {
		logRequest(ctx, "error", "Failed to set session mood", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		respondError(w, http.StatusNotFound, "Chat session not found")
		return
	}

	logRequest(ctx, "info", "Session mood set", zap.String("session_id", sessionID), zap.String("mood", req.Mood))
	respondData(w, http.StatusOK, "Session mood updated successfully", nil)
}

// DeleteSession handles DELETE /api/chat/sessions/{id}
func (h *ChatHandler) DeleteSession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["id"]
	if _, err := h.getOwnedSession(sessionID, user.ID); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Chat session not found")
		} else {
			logRequest(ctx, "error", "Failed to query chat session", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if _, err := h.db.Exec("DELETE FROM chat_messages WHERE session_id = ?", sessionID); err != nil {
		logRequest(ctx, "error", "Failed to delete chat messages", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete chat session")
		return
	}
	if _, err := h.db.Exec("DELETE FROM chat_sessions WHERE id = ?", sessionID); err != nil {
		logRequest(ctx, "error", "Failed to delete chat session", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete chat session")
		return
	}

	logRequest(ctx, "info", "Chat session deleted", zap.String("session_id", sessionID), zap.Int("user_id", user.ID))
	respondData(w, http.StatusOK, "Chat session deleted successfully", nil)
}

// SendMessage handles POST /api/chat/sessions/{id}/messages. The user message
// is appended and a canned assistant reply generated in the same request.
func (h *ChatHandler) SendMessage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	var req models.SendChatMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondValidation(w, []FieldError{{Field: "text", Message: "Message text is required"}})
		return
	}

	sessionID := mux.Vars(r)["id"]
	if _, err := h.getOwnedSession(sessionID, user.ID); err != nil {
		if err == store.ErrNotFound {
			respondError(w, http.StatusNotFound, "Chat session not found")
		} else {
			logRequest(ctx, "error", "Failed to query chat session", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	userMsg, err := h.insertMessage(sessionID, "user", strings.TrimSpace(req.Text), false)
	if err != nil {
		logRequest(ctx, "error", "Failed to store user message", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	assistantMsg, err := h.insertMessage(sessionID, "assistant", assistantReply(), true)
	if err != nil {
		logRequest(ctx, "error", "Failed to store assistant reply", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	if _, err := h.db.Exec("UPDATE chat_sessions SET updated_at = ? WHERE id = ?", time.Now(), sessionID); err != nil {
		logRequest(ctx, "error", "Failed to touch chat session", zap.Error(err))
	}

	logRequest(ctx, "info", "Chat exchange stored", zap.String("session_id", sessionID))

	respondData(w, http.StatusCreated, "Message sent successfully", models.ChatExchange{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	})
}
