package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eldercare-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userPayload struct {
	User models.User `json:"user"`
}

func TestMeReturnsProfile(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)
	user, tok := env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")

	rec := httptest.NewRecorder()
	h.Me(testCtx(), rec, authedRequest(t, "GET", "/api/users/me", nil, tok))

	require.Equal(t, http.StatusOK, rec.Code)
	var data userPayload
	decodeData(t, decodeEnvelope(t, rec), &data)
	assert.Equal(t, user.ID, data.User.ID)
	assert.Equal(t, "margaret", data.User.Username)
}

func TestSignupProfileRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	authHandler := NewAuthHandler(env.users, env.cache)
	userHandler := NewUserHandler(env.users, env.cache)

	age := 72
	gender := "Female"
	req := validSignup()
	req.Age = &age
	req.Gender = &gender

	rec := httptest.NewRecorder()
	authHandler.Signup(testCtx(), rec, jsonRequest(t, "POST", "/api/auth/signup", req))
	require.Equal(t, http.StatusCreated, rec.Code)

	var auth models.AuthResponse
	decodeData(t, decodeEnvelope(t, rec), &auth)

	rec = httptest.NewRecorder()
	userHandler.Me(testCtx(), rec, authedRequest(t, "GET", "/api/users/me", nil, auth.Token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var data userPayload
	decodeData(t, decodeEnvelope(t, rec), &data)
	assert.Equal(t, "Margaret Smith", data.User.FullName)
	require.NotNil(t, data.User.Age)
	assert.Equal(t, 72, *data.User.Age)
	require.NotNil(t, data.User.Gender)
	assert.Equal(t, "Female", *data.User.Gender)
}

func TestMeRejectsMissingToken(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)

	rec := httptest.NewRecorder()
	h.Me(testCtx(), rec, jsonRequest(t, "GET", "/api/users/me", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", decodeEnvelope(t, rec).Message)
}

func TestUpdateMePartial(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)
	_, tok := env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")

	caregiver := "Sarah Johnson"
	rec := httptest.NewRecorder()
	h.UpdateMe(testCtx(), rec, authedRequest(t, "PUT", "/api/users/me", models.UpdateProfileRequest{
		FullName:         "Margaret Rose Smith",
		PrimaryCaregiver: &caregiver,
	}, tok))

	require.Equal(t, http.StatusOK, rec.Code)
	var data userPayload
	decodeData(t, decodeEnvelope(t, rec), &data)
	assert.Equal(t, "Margaret Rose Smith", data.User.FullName)
	require.NotNil(t, data.User.PrimaryCaregiver)
	assert.Equal(t, "Sarah Johnson", *data.User.PrimaryCaregiver)
	// Unsent fields are untouched
	assert.Equal(t, "margaret", data.User.Username)
}

func TestUpdateMeConflict(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)
	env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")
	_, tok := env.createUser(t, "harold", "harold@example.com", "Sunshine1")

	rec := httptest.NewRecorder()
	h.UpdateMe(testCtx(), rec, authedRequest(t, "PUT", "/api/users/me", models.UpdateProfileRequest{
		Username: "margaret",
	}, tok))

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user with this username already exists", decodeEnvelope(t, rec).Message)
}

func TestUpdateMeValidatesFields(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)
	_, tok := env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")

	badGender := "Unknown"
	rec := httptest.NewRecorder()
	h.UpdateMe(testCtx(), rec, authedRequest(t, "PUT", "/api/users/me", models.UpdateProfileRequest{
		Gender: &badGender,
	}, tok))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "gender", resp.Errors[0].Field)
}

func TestUpdateSettingsMerges(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)
	_, tok := env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")

	theme := "dark"
	rec := httptest.NewRecorder()
	h.UpdateSettings(testCtx(), rec, authedRequest(t, "PUT", "/api/users/me/settings", models.SettingsPatch{
		Preferences: &models.PreferencesPatch{Theme: &theme},
	}, tok))

	require.Equal(t, http.StatusOK, rec.Code)
	var data userPayload
	decodeData(t, decodeEnvelope(t, rec), &data)
	assert.Equal(t, "dark", data.User.Settings.Preferences.Theme)
	assert.Equal(t, "en", data.User.Settings.Preferences.Language)
	assert.True(t, data.User.Settings.Notifications.Email)
}

func TestUpdateSettingsRejectsBadEnum(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)
	_, tok := env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")

	visibility := "everyone"
	rec := httptest.NewRecorder()
	h.UpdateSettings(testCtx(), rec, authedRequest(t, "PUT", "/api/users/me/settings", models.SettingsPatch{
		Privacy: &models.PrivacyPatch{ProfileVisibility: &visibility},
	}, tok))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "privacy.profileVisibility", resp.Errors[0].Field)
}

func TestDeactivateMeLocksOutToken(t *testing.T) {
	env := newTestEnv(t)
	h := NewUserHandler(env.users, env.cache)
	_, tok := env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")

	rec := httptest.NewRecorder()
	h.DeactivateMe(testCtx(), rec, authedRequest(t, "DELETE", "/api/users/me", nil, tok))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Account deactivated successfully", decodeEnvelope(t, rec).Message)

	// The still-valid token no longer resolves to an active user
	rec = httptest.NewRecorder()
	h.Me(testCtx(), rec, authedRequest(t, "GET", "/api/users/me", nil, tok))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatsCachedAndInvalidatedOnSignup(t *testing.T) {
	env := newTestEnv(t)
	userHandler := NewUserHandler(env.users, env.cache)
	authHandler := NewAuthHandler(env.users, env.cache)
	_, tok := env.createUser(t, "margaret", "margaret@example.com", "Sunshine1")

	rec := httptest.NewRecorder()
	userHandler.Stats(testCtx(), rec, authedRequest(t, "GET", "/api/users/stats", nil, tok))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.UserStats
	decodeData(t, decodeEnvelope(t, rec), &stats)
	assert.Equal(t, 1, stats.TotalUsers)

	// Signup drops the cached entry, so the next read sees the new user
	rec = httptest.NewRecorder()
	authHandler.Signup(testCtx(), rec, jsonRequest(t, "POST", "/api/auth/signup", validSignup2()))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	userHandler.Stats(testCtx(), rec, authedRequest(t, "GET", "/api/users/stats", nil, tok))
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, decodeEnvelope(t, rec), &stats)
	assert.Equal(t, 2, stats.TotalUsers)
}

func validSignup2() models.SignupRequest {
	return models.SignupRequest{
		Username: "harold",
		Email:    "harold@example.com",
		Password: "Sunshine1",
		FullName: "Harold Green",
	}
}
