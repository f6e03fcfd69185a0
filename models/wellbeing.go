package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Mood labels accepted for mood entries and chat session tags
var MoodLabels = map[string]bool{
	"happy":   true,
	"okay":    true,
	"neutral": true,
	"sad":     true,
	"upset":   true,
}

// StringList stores a JSON array in a TEXT column (image attachment paths)
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported list column type %T", src)
}

// MoodEntry is an append-only mood record; never mutated after creation
type MoodEntry struct {
	ID           int        `json:"id" db:"id"`
	UserID       int        `json:"-" db:"user_id"`
	Mood         string     `json:"mood" db:"mood"`
	Note         string     `json:"note,omitempty" db:"note"`
	HasVoiceNote bool       `json:"hasVoiceNote" db:"has_voice_note"`
	Images       StringList `json:"images,omitempty" db:"images"`
	RecordedAt   time.Time  `json:"recordedAt" db:"recorded_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// JournalEntry is an append-only journal record
type JournalEntry struct {
	ID         int        `json:"id" db:"id"`
	UserID     int        `json:"-" db:"user_id"`
	Title      string     `json:"title" db:"title"`
	Content    string     `json:"content" db:"content"`
	Images     StringList `json:"images,omitempty" db:"images"`
	RecordedAt time.Time  `json:"recordedAt" db:"recorded_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// CreateMoodEntryRequest represents POST /api/wellbeing/moods.
// RecordedAt is optional; entries may be backdated.
type CreateMoodEntryRequest struct {
	Mood         string     `json:"mood"`
	Note         string     `json:"note,omitempty"`
	HasVoiceNote bool       `json:"hasVoiceNote,omitempty"`
	Images       []string   `json:"images,omitempty"`
	RecordedAt   *time.Time `json:"recordedAt,omitempty"`
}

// CreateJournalEntryRequest represents POST /api/wellbeing/journal
type CreateJournalEntryRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Images     []string   `json:"images,omitempty"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
}
