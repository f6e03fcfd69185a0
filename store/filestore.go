package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"eldercare-service/models"
)

const fileStoreVersion = 1

// fileData is the on-disk shape: a versioned JSON blob with users and a
// separate password map, mirroring the browser-local variant's fixed keys.
type fileData struct {
	Version   int               `json:"version"`
	NextID    int               `json:"next_id"`
	Users     []models.User     `json:"users"`
	Passwords map[string]string `json:"passwords"` // username -> bcrypt hash
}

// FileStore keeps all users in a single JSON file. It is the local fallback
// backend; writes are last-write-wins under a process-wide lock.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (*fileData, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileData{Version: fileStoreVersion, NextID: 1, Passwords: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	if data.Passwords == nil {
		data.Passwords = map[string]string{}
	}
	if data.NextID == 0 {
		data.NextID = len(data.Users) + 1
	}
	return &data, nil
}

func (s *FileStore) save(data *fileData) error {
	data.Version = fileStoreVersion
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	// Write via temp file + rename so a crash never leaves a torn blob
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Create(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	for i := range data.Users {
		if strings.EqualFold(data.Users[i].Username, u.Username) {
			return ErrUsernameTaken
		}
	}
	for i := range data.Users {
		if strings.EqualFold(data.Users[i].Email, u.Email) {
			return ErrEmailTaken
		}
	}

	now := time.Now()
	u.ID = data.NextID
	u.IsActive = true
	if (u.Settings == models.Settings{}) {
		u.Settings = models.DefaultSettings()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	data.NextID++
	data.Passwords[u.Username] = u.PasswordHash

	stored := *u
	stored.PasswordHash = "" // hashes live in the password map, not the user list
	data.Users = append(data.Users, stored)

	return s.save(data)
}

func (s *FileStore) userAt(data *fileData, i int) *models.User {
	u := data.Users[i]
	u.PasswordHash = data.Passwords[u.Username]
	return &u
}

func (s *FileStore) GetByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Users {
		if data.Users[i].ID == id {
			return s.userAt(data, i), nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) GetByIdentifier(identifier string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Users {
		if strings.EqualFold(data.Users[i].Username, identifier) ||
			strings.EqualFold(data.Users[i].Email, identifier) {
			return s.userAt(data, i), nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) UpdateProfile(id int, req models.UpdateProfileRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range data.Users {
		if data.Users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	u := &data.Users[idx]

	if req.Username != "" && !strings.EqualFold(req.Username, u.Username) {
		for i := range data.Users {
			if i != idx && strings.EqualFold(data.Users[i].Username, req.Username) {
				return nil, ErrUsernameTaken
			}
		}
	}
	if req.Email != "" && !strings.EqualFold(req.Email, u.Email) {
		for i := range data.Users {
			if i != idx && strings.EqualFold(data.Users[i].Email, req.Email) {
				return nil, ErrEmailTaken
			}
		}
	}

	if req.Username != "" && req.Username != u.Username {
		// Re-key the password map when the username changes
		data.Passwords[req.Username] = data.Passwords[u.Username]
		delete(data.Passwords, u.Username)
		u.Username = req.Username
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Age != nil {
		u.Age = req.Age
	}
	if req.Gender != nil {
		u.Gender = req.Gender
	}
	if req.PrimaryCaregiver != nil {
		u.PrimaryCaregiver = req.PrimaryCaregiver
	}
	u.UpdatedAt = time.Now()

	if err := s.save(data); err != nil {
		return nil, err
	}
	return s.userAt(data, idx), nil
}

func (s *FileStore) UpdateSettings(id int, patch models.SettingsPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range data.Users {
		if data.Users[i].ID == id {
			data.Users[i].Settings.Apply(patch)
			data.Users[i].UpdatedAt = time.Now()
			if err := s.save(data); err != nil {
				return nil, err
			}
			return s.userAt(data, i), nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Deactivate(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	for i := range data.Users {
		if data.Users[i].ID == id {
			data.Users[i].IsActive = false
			data.Users[i].UpdatedAt = time.Now()
			return s.save(data)
		}
	}
	return ErrNotFound
}

func (s *FileStore) RecordLogin(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	for i := range data.Users {
		if data.Users[i].ID == id {
			now := time.Now()
			data.Users[i].LastLogin = &now
			return s.save(data)
		}
	}
	return ErrNotFound
}

func (s *FileStore) Stats() (*models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	stats := models.UserStats{TotalUsers: len(data.Users)}
	cutoff := time.Now().AddDate(0, 0, -30)
	for i := range data.Users {
		if data.Users[i].IsActive {
			stats.ActiveUsers++
		}
		if data.Users[i].CreatedAt.After(cutoff) {
			stats.RecentUsers++
		}
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers
	return &stats, nil
}
