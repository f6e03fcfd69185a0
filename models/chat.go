package models

import "time"

// ChatSession is an ordered conversation with the assistant, owned by a user
type ChatSession struct {
	ID        string    `json:"id" db:"id"`
	UserID    int       `json:"-" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Mood      string    `json:"mood,omitempty" db:"mood"` // optional session mood tag
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ChatMessage is a single message within a session
type ChatMessage struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"-" db:"session_id"`
	Sender    string    `json:"sender" db:"sender"` // user | assistant
	Text      string    `json:"text" db:"text"`
	HasAudio  bool      `json:"hasAudio" db:"has_audio"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ChatSessionDetail is the GET /api/chat/sessions/{id} payload
type ChatSessionDetail struct {
	Session  *ChatSession  `json:"session"`
	Messages []ChatMessage `json:"messages"`
}

// CreateChatSessionRequest represents POST /api/chat/sessions
type CreateChatSessionRequest struct {
	Title string `json:"title,omitempty"`
}

// SendChatMessageRequest represents POST /api/chat/sessions/{id}/messages
type SendChatMessageRequest struct {
	Text string `json:"text"`
}

// SetSessionMoodRequest represents PUT /api/chat/sessions/{id}/mood
type SetSessionMoodRequest struct {
	Mood string `json:"mood"`
}

// ChatExchange returns the appended user message and the assistant reply
type ChatExchange struct {
	UserMessage      *ChatMessage `json:"userMessage"`
	AssistantMessage *ChatMessage `json:"assistantMessage"`
}
