package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsApplyMergesGroupByGroup(t *testing.T) {
	s := DefaultSettings()

	sms := true
	theme := "dark"
	s.Apply(SettingsPatch{
		Notifications: &NotificationsPatch{SMS: &sms},
		Preferences:   &PreferencesPatch{Theme: &theme},
	})

	assert.True(t, s.Notifications.SMS)
	assert.Equal(t, "dark", s.Preferences.Theme)
	// Everything not named in the patch keeps its value
	assert.True(t, s.Notifications.Email)
	assert.Equal(t, "en", s.Preferences.Language)
	assert.Equal(t, "private", s.Privacy.ProfileVisibility)
}

func TestSettingsApplyEmptyPatchIsNoop(t *testing.T) {
	s := DefaultSettings()
	s.Apply(SettingsPatch{})
	assert.Equal(t, DefaultSettings(), s)
}

func TestSettingsScanDefaultsOnNull(t *testing.T) {
	var s Settings
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, DefaultSettings(), s)
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := User{Username: "margaret", PasswordHash: "$2a$12$secret"}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
}
