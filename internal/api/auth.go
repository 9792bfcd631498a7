package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/izgubljeno/internal/apperr"
	"github.com/erazemk/izgubljeno/internal/auth"
	sqlitedb "github.com/erazemk/izgubljeno/internal/db"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	Logger    *slog.Logger
}

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Name == "" || req.Email == "" {
		writeError(w, r, h.Logger, apperr.Validation("username, name and email required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, r, h.Logger, apperr.Validation("invalid email address"))
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		writeError(w, r, h.Logger, apperr.Validation(err.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, req.Name, req.Email, strings.TrimSpace(req.Phone), string(hash))
	if sqlitedb.IsUniqueViolation(err) {
		writeError(w, r, h.Logger, apperr.Conflict("username or email already registered"))
		return
	}
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("user registered", "user", user.Username)
	respond(w, http.StatusCreated, "registered", sessionResponse{Token: token, User: user})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, r, h.Logger, apperr.Validation("username and password required"))
		return
	}

	user, err := store.GetUserByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	if user == nil {
		writeError(w, r, h.Logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.Logger.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		writeError(w, r, h.Logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Username)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("user logged in", "user", user.Username)
	respond(w, http.StatusOK, "logged in", sessionResponse{Token: token, User: user})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		writeError(w, r, h.Logger, apperr.Unauthorized("not authenticated"))
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	h.Logger.Info("user logged out", "user", claims.Username)
	respond(w, http.StatusOK, "logged out", nil)
}
