package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/healthhub-app/healthhub/backend/internal/common"
	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// UserStore defines the interface for credential persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, hashedPw string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetEmail(ctx context.Context, username string) (string, error)
	UpdatePassword(ctx context.Context, username, hashedPw string) error
}

// CodeSender is the external delivery channel for reset codes.
type CodeSender interface {
	SendResetCode(toEmail, code string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users    UserStore
	sessions SessionManager
	sender   CodeSender
}

func NewHandler(users UserStore, sessions SessionManager, sender CodeSender) *Handler {
	return &Handler{users: users, sessions: sessions, sender: sender}
}

// writeError maps a sentinel error to a JSON error response.
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	// Trimmed copies gate emptiness only; credentials are stored as entered.
	if strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, common.ErrValidation)
		return
	}

	hashed, err := Hash(req.Password)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Email, hashed)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, common.ErrDuplicateUser)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login authenticates a user and creates a session. An unknown username and
// a wrong password produce the same response, so the endpoint cannot be
// used to enumerate accounts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil || user == nil {
		writeError(w, http.StatusUnauthorized, common.ErrInvalidCredentials)
		return
	}

	if !Verify(req.Password, user.Password) {
		writeError(w, http.StatusUnauthorized, common.ErrInvalidCredentials)
		return
	}

	sid, err := h.sessions.Create(r.Context(), &Session{UserID: user.ID, Username: user.Username})
	if err != nil {
		http.Error(w, `{"error":"session creation failed"}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Logout destroys the current session, including any pending reset
// challenge it carried.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		h.sessions.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"logged out"}`))
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id")
	if userID == nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID.(string))
	if err != nil || user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
