package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"eldercare-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewFileStore(path), path
}

func TestFileStoreCreateAndLookup(t *testing.T) {
	s, _ := newTestFileStore(t)

	u := testUser("margaret", "margaret@example.com")
	require.NoError(t, s.Create(u))
	assert.Equal(t, 1, u.ID)
	assert.True(t, u.IsActive)
	assert.Equal(t, models.DefaultSettings(), u.Settings)

	byID, err := s.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "margaret", byID.Username)
	assert.Equal(t, "not-a-real-hash", byID.PasswordHash)

	byEmail, err := s.GetByIdentifier("margaret@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.GetByIdentifier("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreUniquenessIsCaseInsensitive(t *testing.T) {
	s, _ := newTestFileStore(t)
	require.NoError(t, s.Create(testUser("margaret", "margaret@example.com")))

	err := s.Create(testUser("MARGARET", "other@example.com"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = s.Create(testUser("other", "Margaret@Example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	s, path := newTestFileStore(t)
	u := testUser("margaret", "margaret@example.com")
	require.NoError(t, s.Create(u))

	// A fresh store over the same file sees the user
	reopened := NewFileStore(path)
	loaded, err := reopened.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "margaret", loaded.Username)
	assert.Equal(t, "not-a-real-hash", loaded.PasswordHash)
}

func TestFileStoreHashesLiveOutsideUserList(t *testing.T) {
	s, path := newTestFileStore(t)
	require.NoError(t, s.Create(testUser("margaret", "margaret@example.com")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var data fileData
	require.NoError(t, json.Unmarshal(raw, &data))

	// The stored user entries carry no hash; the password map does
	require.Len(t, data.Users, 1)
	assert.Empty(t, data.Users[0].PasswordHash)
	assert.Equal(t, "not-a-real-hash", data.Passwords["margaret"])
}

func TestFileStoreUsernameChangeRekeysPassword(t *testing.T) {
	s, _ := newTestFileStore(t)
	u := testUser("margaret", "margaret@example.com")
	require.NoError(t, s.Create(u))

	updated, err := s.UpdateProfile(u.ID, models.UpdateProfileRequest{Username: "maggie"})
	require.NoError(t, err)
	assert.Equal(t, "maggie", updated.Username)
	assert.Equal(t, "not-a-real-hash", updated.PasswordHash)

	reloaded, err := s.GetByIdentifier("maggie")
	require.NoError(t, err)
	assert.Equal(t, "not-a-real-hash", reloaded.PasswordHash)
}

func TestFileStoreUpdateProfileConflict(t *testing.T) {
	s, _ := newTestFileStore(t)
	first := testUser("margaret", "margaret@example.com")
	second := testUser("harold", "harold@example.com")
	require.NoError(t, s.Create(first))
	require.NoError(t, s.Create(second))

	_, err := s.UpdateProfile(second.ID, models.UpdateProfileRequest{Username: "Margaret"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestFileStoreUpdateSettingsMerges(t *testing.T) {
	s, _ := newTestFileStore(t)
	u := testUser("margaret", "margaret@example.com")
	require.NoError(t, s.Create(u))

	sms := true
	updated, err := s.UpdateSettings(u.ID, models.SettingsPatch{
		Notifications: &models.NotificationsPatch{SMS: &sms},
	})
	require.NoError(t, err)

	assert.True(t, updated.Settings.Notifications.SMS)
	assert.True(t, updated.Settings.Notifications.Email)
}

func TestFileStoreDeactivateAndStats(t *testing.T) {
	s, _ := newTestFileStore(t)
	first := testUser("margaret", "margaret@example.com")
	second := testUser("harold", "harold@example.com")
	require.NoError(t, s.Create(first))
	require.NoError(t, s.Create(second))

	require.NoError(t, s.Deactivate(second.ID))

	reloaded, err := s.GetByID(second.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Equal(t, 1, stats.InactiveUsers)
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalUsers)

	_, err = s.GetByID(1)
	assert.ErrorIs(t, err, ErrNotFound)
}
