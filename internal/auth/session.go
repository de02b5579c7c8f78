package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"

	// ResetCodeTTL bounds how long an issued reset code stays usable. The
	// original design had no expiry at all; see DESIGN.md.
	ResetCodeTTL = 15 * time.Minute
)

// Session is the single explicit session-state value threaded through the
// handlers: login state plus the reset flow's active challenge. It is
// stored as one JSON value under one Redis key, so logout wipes the reset
// challenge together with the login state.
type Session struct {
	UserID        string    `json:"user_id,omitempty"`
	Username      string    `json:"username,omitempty"`
	ResetUser     string    `json:"reset_user,omitempty"`
	ResetCode     string    `json:"reset_code,omitempty"`
	ResetIssuedAt time.Time `json:"reset_issued_at"`
}

// LoggedIn reports whether the session is bound to an authenticated user.
func (s *Session) LoggedIn() bool { return s.UserID != "" }

// ActiveChallenge reports whether the session holds a usable reset
// challenge. Codes older than ResetCodeTTL count as absent.
func (s *Session) ActiveChallenge() bool {
	return s.ResetCode != "" && time.Since(s.ResetIssuedAt) <= ResetCodeTTL
}

// ClearChallenge discards the reset challenge after it is consumed.
func (s *Session) ClearChallenge() {
	s.ResetUser = ""
	s.ResetCode = ""
	s.ResetIssuedAt = time.Time{}
}

// SessionManager is the session persistence contract handlers depend on.
type SessionManager interface {
	Create(ctx context.Context, sess *Session) (string, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, sessionID string, sess *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionStore wraps Redis for session management.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create stores a new session value and returns its id.
func (s *SessionStore) Create(ctx context.Context, sess *Session) (string, error) {
	sid := uuid.New().String()
	if err := s.Save(ctx, sid, sess); err != nil {
		return "", err
	}
	return sid, nil
}

// Get returns the session value, or nil if not found / expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := s.rdb.Get(ctx, "session:"+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save writes the session value back, refreshing its TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, "session:"+sessionID, data, SessionTTL).Err()
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "session:"+sessionID).Err()
}
