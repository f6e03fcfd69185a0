package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User represents a user in the system
// PasswordHash is stored bcrypt-hashed; never returned in JSON responses
type User struct {
	ID               int        `json:"id" db:"id"`
	Username         string     `json:"username" db:"username"`
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	FullName         string     `json:"fullName" db:"full_name"`
	Age              *int       `json:"age,omitempty" db:"age"`
	Gender           *string    `json:"gender,omitempty" db:"gender"`
	PrimaryCaregiver *string    `json:"primaryCaregiver,omitempty" db:"primary_caregiver"`
	IsActive         bool       `json:"isActive" db:"is_active"`
	Settings         Settings   `json:"settings" db:"settings"`
	LastLogin        *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// NotificationSettings controls per-channel reminders
type NotificationSettings struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// PrivacySettings controls profile visibility and health data sharing
type PrivacySettings struct {
	ProfileVisibility string `json:"profileVisibility"` // public | private
	ShareHealthData   bool   `json:"shareHealthData"`
}

// PreferenceSettings holds display preferences
type PreferenceSettings struct {
	Language string `json:"language"`
	Timezone string `json:"timezone"`
	Theme    string `json:"theme"` // light | dark
}

// Settings groups all user settings; stored as a JSON column
type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Preferences   PreferenceSettings   `json:"preferences"`
}

// DefaultSettings returns the settings applied to every new account
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{Email: true, Push: true, SMS: false},
		Privacy:       PrivacySettings{ProfileVisibility: "private", ShareHealthData: false},
		Preferences:   PreferenceSettings{Language: "en", Timezone: "UTC", Theme: "light"},
	}
}

// Value implements driver.Valuer so Settings round-trips through sqlx
func (s Settings) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Settings) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = DefaultSettings()
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("unsupported settings column type %T", src)
}

// SettingsPatch is a partial settings update; nil groups/fields are untouched
type SettingsPatch struct {
	Notifications *NotificationsPatch `json:"notifications,omitempty"`
	Privacy       *PrivacyPatch       `json:"privacy,omitempty"`
	Preferences   *PreferencesPatch   `json:"preferences,omitempty"`
}

type NotificationsPatch struct {
	Email *bool `json:"email,omitempty"`
	Push  *bool `json:"push,omitempty"`
	SMS   *bool `json:"sms,omitempty"`
}

type PrivacyPatch struct {
	ProfileVisibility *string `json:"profileVisibility,omitempty"`
	ShareHealthData   *bool   `json:"shareHealthData,omitempty"`
}

type PreferencesPatch struct {
	Language *string `json:"language,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
	Theme    *string `json:"theme,omitempty"`
}

// Apply merges a patch into the settings, group by group
func (s *Settings) Apply(p SettingsPatch) {
	if p.Notifications != nil {
		if p.Notifications.Email != nil {
			s.Notifications.Email = *p.Notifications.Email
		}
		if p.Notifications.Push != nil {
			s.Notifications.Push = *p.Notifications.Push
		}
		if p.Notifications.SMS != nil {
			s.Notifications.SMS = *p.Notifications.SMS
		}
	}
	if p.Privacy != nil {
		if p.Privacy.ProfileVisibility != nil {
			s.Privacy.ProfileVisibility = *p.Privacy.ProfileVisibility
		}
		if p.Privacy.ShareHealthData != nil {
			s.Privacy.ShareHealthData = *p.Privacy.ShareHealthData
		}
	}
	if p.Preferences != nil {
		if p.Preferences.Language != nil {
			s.Preferences.Language = *p.Preferences.Language
		}
		if p.Preferences.Timezone != nil {
			s.Preferences.Timezone = *p.Preferences.Timezone
		}
		if p.Preferences.Theme != nil {
			s.Preferences.Theme = *p.Preferences.Theme
		}
	}
}

// SignupRequest represents the POST /api/auth/signup body
type SignupRequest struct {
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	Password         string  `json:"password"` // Plaintext; hashed in the handler
	FullName         string  `json:"fullName"`
	Age              *int    `json:"age,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	PrimaryCaregiver *string `json:"primaryCaregiver,omitempty"`
}

// LoginRequest represents the POST /api/auth/login body.
// Identifier may be a username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// UpdateProfileRequest is a partial profile update; zero-value strings are
// treated as absent, pointer fields distinguish absent from cleared
type UpdateProfileRequest struct {
	Username         string  `json:"username,omitempty"`
	Email            string  `json:"email,omitempty"`
	FullName         string  `json:"fullName,omitempty"`
	Age              *int    `json:"age,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	PrimaryCaregiver *string `json:"primaryCaregiver,omitempty"`
}

// AuthResponse pairs a user snapshot with a freshly minted token
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UserStats aggregates account counts for GET /api/users/stats
type UserStats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveUsers   int `json:"activeUsers"`
	InactiveUsers int `json:"inactiveUsers"`
	RecentUsers   int `json:"recentUsers"` // created in the last 30 days
}
