// Package store holds the user persistence strategies. All auth and profile
// operations go through UserStore so the backing store can be swapped at
// startup between sqlite and a local JSON file without touching handlers.
package store

import (
	"errors"

	"eldercare-service/models"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("user with this username already exists")
	ErrEmailTaken    = errors.New("user with this email already exists")
)

// UserStore is the auth backend strategy. Implementations must enforce
// username and email uniqueness and never hard-delete records.
type UserStore interface {
	// Create persists a new user. The caller fills Username, Email,
	// PasswordHash, FullName and optional profile fields; Create assigns
	// ID, IsActive, Settings (if zero) and timestamps.
	Create(u *models.User) error

	GetByID(id int) (*models.User, error)

	// GetByIdentifier looks a user up by username or email. It returns
	// deactivated users too; callers decide whether IsActive matters.
	GetByIdentifier(identifier string) (*models.User, error)

	// UpdateProfile merges non-empty fields into the record and re-checks
	// uniqueness when username or email changes. On conflict the record
	// is left unchanged.
	UpdateProfile(id int, req models.UpdateProfileRequest) (*models.User, error)

	// UpdateSettings merges a partial settings patch.
	UpdateSettings(id int, patch models.SettingsPatch) (*models.User, error)

	// Deactivate soft-deletes the account.
	Deactivate(id int) error

	// RecordLogin stamps last_login.
	RecordLogin(id int) error

	Stats() (*models.UserStats, error)
}
