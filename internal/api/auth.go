package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/store-re/server/internal/auth"
	"github.com/store-re/server/internal/store"
)

// AuthHandler handles session creation and teardown.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /v1/auth. A successful login creates a session whose
// sync checkpoint starts now, and returns the token bound to it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "username and password required")
		return
	}

	user, err := store.GetUserByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		slog.Error("looking up user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		jsonError(w, http.StatusForbidden, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		jsonError(w, http.StatusForbidden, "invalid credentials")
		return
	}

	session, err := store.CreateSession(r.Context(), h.DB, user.ID, time.Now().Unix())
	if err != nil {
		slog.Error("creating session", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, session.SessionID, user.ID)
	if err != nil {
		slog.Error("generating token", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("user logged in", "user", user.Username)
	jsonResponse(w, http.StatusCreated, loginResponse{Token: token})
}

// Logout handles DELETE /v1/auth. Tearing down the session invalidates the
// token immediately, regardless of its JWT expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal := GetPrincipal(r.Context())
	if principal == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := store.DeleteSession(r.Context(), h.DB, principal.SessionID); err != nil {
		storeError(w, err, "deleting session")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
