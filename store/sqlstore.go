package store

import (
	"database/sql"
	"strings"
	"time"

	"eldercare-service/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, email, password_hash, full_name, age, gender,
	primary_caregiver, is_active, settings, last_login, created_at, updated_at`

// SQLStore persists users in sqlite via sqlx
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) usernameTaken(username string, excludeID int) (bool, error) {
	var n int
	err := s.db.Get(&n, "SELECT COUNT(*) FROM users WHERE username = ? AND id != ?", username, excludeID)
	return n > 0, err
}

func (s *SQLStore) emailTaken(email string, excludeID int) (bool, error) {
	var n int
	err := s.db.Get(&n, "SELECT COUNT(*) FROM users WHERE email = ? AND id != ?", email, excludeID)
	return n > 0, err
}

func (s *SQLStore) Create(u *models.User) error {
	if taken, err := s.usernameTaken(u.Username, 0); err != nil {
		return err
	} else if taken {
		return ErrUsernameTaken
	}
	if taken, err := s.emailTaken(u.Email, 0); err != nil {
		return err
	} else if taken {
		return ErrEmailTaken
	}

	now := time.Now()
	u.IsActive = true
	if (u.Settings == models.Settings{}) {
		u.Settings = models.DefaultSettings()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	result, err := s.db.Exec(`
		INSERT INTO users (username, email, password_hash, full_name, age, gender,
			primary_caregiver, is_active, settings, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Age, u.Gender,
		u.PrimaryCaregiver, u.Settings, now, now,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

func (s *SQLStore) GetByID(id int) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLStore) GetByIdentifier(identifier string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u,
		"SELECT "+userColumns+" FROM users WHERE username = ? OR email = ?",
		identifier, identifier,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLStore) UpdateProfile(id int, req models.UpdateProfileRequest) (*models.User, error) {
	current, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Username != "" && req.Username != current.Username {
		if taken, err := s.usernameTaken(req.Username, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameTaken
		}
	}
	if req.Email != "" && req.Email != current.Email {
		if taken, err := s.emailTaken(req.Email, id); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailTaken
		}
	}

	// Build update query from the provided fields only
	setParts := []string{}
	args := []interface{}{}

	if req.Username != "" {
		setParts = append(setParts, "username = ?")
		args = append(args, req.Username)
	}
	if req.Email != "" {
		setParts = append(setParts, "email = ?")
		args = append(args, req.Email)
	}
	if req.FullName != "" {
		setParts = append(setParts, "full_name = ?")
		args = append(args, req.FullName)
	}
	if req.Age != nil {
		setParts = append(setParts, "age = ?")
		args = append(args, *req.Age)
	}
	if req.Gender != nil {
		setParts = append(setParts, "gender = ?")
		args = append(args, *req.Gender)
	}
	if req.PrimaryCaregiver != nil {
		setParts = append(setParts, "primary_caregiver = ?")
		args = append(args, *req.PrimaryCaregiver)
	}

	if len(setParts) > 0 {
		setParts = append(setParts, "updated_at = ?")
		args = append(args, time.Now())
		args = append(args, id)

		query := "UPDATE users SET " + strings.Join(setParts, ", ") + " WHERE id = ?"
		if _, err := s.db.Exec(query, args...); err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

func (s *SQLStore) UpdateSettings(id int, patch models.SettingsPatch) (*models.User, error) {
	current, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	settings := current.Settings
	settings.Apply(patch)

	_, err = s.db.Exec("UPDATE users SET settings = ?, updated_at = ? WHERE id = ?",
		settings, time.Now(), id)
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *SQLStore) Deactivate(id int) error {
	result, err := s.db.Exec("UPDATE users SET is_active = 0, updated_at = ? WHERE id = ?",
		time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) RecordLogin(id int) error {
	_, err := s.db.Exec("UPDATE users SET last_login = ? WHERE id = ?", time.Now(), id)
	return err
}

func (s *SQLStore) Stats() (*models.UserStats, error) {
	var stats models.UserStats
	if err := s.db.Get(&stats.TotalUsers, "SELECT COUNT(*) FROM users"); err != nil {
		return nil, err
	}
	if err := s.db.Get(&stats.ActiveUsers, "SELECT COUNT(*) FROM users WHERE is_active = 1"); err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -30)
	if err := s.db.Get(&stats.RecentUsers, "SELECT COUNT(*) FROM users WHERE created_at >= ?", cutoff); err != nil {
		return nil, err
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	return &stats, nil
}
