package handlers

import (
	"context"
	"net/http"

	"eldercare-service/models"
	"eldercare-service/store"
	"eldercare-service/token"

	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	users store.UserStore
	cache cache.Cache
}

func NewAuthHandler(users store.UserStore, cache cache.Cache) *AuthHandler {
	return &AuthHandler{users: users, cache: cache}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid signup body", zap.Error(err))
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if fieldErrs := ValidateSignup(req); len(fieldErrs) > 0 {
		logRequest(ctx, "info", "Signup validation failed", zap.Int("errors", len(fieldErrs)))
		respondValidation(w, fieldErrs)
		return
	}

	logRequest(ctx, "info", "Signup attempt", zap.String("username", req.Username))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		logRequest(ctx, "error", "Password hashing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user account")
		return
	}

	user := &models.User{
		Username:         req.Username,
		Email:            req.Email,
		PasswordHash:     string(hash),
		FullName:         req.FullName,
		Age:              req.Age,
		Gender:           req.Gender,
		PrimaryCaregiver: req.PrimaryCaregiver,
	}

	switch err := h.users.Create(user); err {
	case nil:
	case store.ErrUsernameTaken, store.ErrEmailTaken:
		logRequest(ctx, "info", "Signup conflict", zap.String("username", req.Username))
		respondError(w, http.StatusConflict, err.Error())
		return
	default:
		logRequest(ctx, "error", "Failed to create user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user account")
		return
	}

	tok, err := token.Generate(user.ID, user.Username)
	if err != nil {
		logRequest(ctx, "error", "Token generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user account")
		return
	}

	h.cache.Delete(statsCacheKey)

	logRequest(ctx, "info", "User created", zap.Int("user_id", user.ID), zap.String("username", user.Username))

	respondData(w, http.StatusCreated, "User created successfully", models.AuthResponse{
		User:  user,
		Token: tok,
	})
}

// Login handles POST /api/auth/login. Unknown identifiers, wrong passwords
// and deactivated accounts all produce the same generic 401.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		logRequest(ctx, "error", "Invalid login body", zap.Error(err))
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if fieldErrs := ValidateLogin(req); len(fieldErrs) > 0 {
		respondValidation(w, fieldErrs)
		return
	}

	logRequest(ctx, "info", "Login attempt", zap.String("identifier", req.Identifier))

	user, err := h.users.GetByIdentifier(req.Identifier)
	if err == store.ErrNotFound {
		logRequest(ctx, "info", "Login failed: unknown identifier")
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		logRequest(ctx, "error", "Login lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if !user.IsActive {
		logRequest(ctx, "info", "Login failed: account deactivated", zap.Int("user_id", user.ID))
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logRequest(ctx, "info", "Login failed: wrong password", zap.Int("user_id", user.ID))
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.users.RecordLogin(user.ID); err != nil {
		// Non-fatal; the login still succeeds
		logRequest(ctx, "error", "Failed to record last login", zap.Error(err))
	}

	tok, err := token.Generate(user.ID, user.Username)
	if err != nil {
		logRequest(ctx, "error", "Token generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int("user_id", user.ID))

	respondData(w, http.StatusOK, "Login successful", models.AuthResponse{
		User:  user,
		Token: tok,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this is an
// acknowledgement that the client will discard its token.
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(ctx, w, r, h.users)
	if !ok {
		return
	}

	logRequest(ctx, "info", "Logout", zap.Int("user_id", user.ID))
	respondData(w, http.StatusOK, "Logged out successfully", nil)
}
