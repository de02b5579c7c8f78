package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthhub-app/healthhub/backend/internal/common"
	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// --- fakes ---

type fakeUserStore struct {
	users  map[string]*models.User // keyed by username
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, username, email, hashedPw string) (*models.User, error) {
	if _, ok := f.users[username]; ok {
		return nil, common.ErrDuplicateUser
	}
	f.nextID++
	u := &models.User{
		ID:       fmt.Sprintf("u%d", f.nextID),
		Username: username,
		Email:    email,
		Password: hashedPw,
	}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserStore) GetEmail(ctx context.Context, username string) (string, error) {
	u, ok := f.users[username]
	if !ok {
		return "", common.ErrNotFound
	}
	return u.Email, nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, username, hashedPw string) error {
	u, ok := f.users[username]
	if !ok {
		return common.ErrNotFound
	}
	u.Password = hashedPw
	return nil
}

// fakeSessions keeps session values in a map, copying on read and write the
// way the Redis JSON round-trip would.
type fakeSessions struct {
	m       map[string]Session
	nextSID int
	deleted []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: make(map[string]Session)}
}

func (f *fakeSessions) Create(ctx context.Context, sess *Session) (string, error) {
	f.nextSID++
	sid := fmt.Sprintf("sid-%d", f.nextSID)
	f.m[sid] = *sess
	return sid, nil
}

func (f *fakeSessions) Get(ctx context.Context, sid string) (*Session, error) {
	sess, ok := f.m[sid]
	if !ok {
		return nil, nil
	}
	cp := sess
	return &cp, nil
}

func (f *fakeSessions) Save(ctx context.Context, sid string, sess *Session) error {
	f.m[sid] = *sess
	return nil
}

func (f *fakeSessions) Delete(ctx context.Context, sid string) error {
	delete(f.m, sid)
	f.deleted = append(f.deleted, sid)
	return nil
}

type fakeSender struct {
	to   string
	code string
	sent int
	fail error
}

func (f *fakeSender) SendResetCode(toEmail, code string) error {
	if f.fail != nil {
		return f.fail
	}
	f.to = toEmail
	f.code = code
	f.sent++
	return nil
}

// --- helpers ---

func newTestHandler() (*Handler, *fakeUserStore, *fakeSessions, *fakeSender) {
	users := newFakeUserStore()
	sessions := newFakeSessions()
	sender := &fakeSender{}
	return NewHandler(users, sessions, sender), users, sessions, sender
}

func doJSON(t *testing.T, h http.HandlerFunc, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func register(t *testing.T, h *Handler, username, password, email string) {
	t.Helper()
	rr := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		models.RegisterRequest{Username: username, Email: email, Password: password})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func login(t *testing.T, h *Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, h.Login, http.MethodPost, "/api/auth/login",
		models.LoginRequest{Username: username, Password: password})
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	h, users, _, _ := newTestHandler()

	rr := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		models.RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1"})

	require.Equal(t, http.StatusCreated, rr.Code)
	stored := users.users["alice"]
	require.NotNil(t, stored)
	assert.Equal(t, "a@x.com", stored.Email)
	// Digest, not plaintext.
	assert.NotEqual(t, "pw1", stored.Password)
	assert.True(t, Verify("pw1", stored.Password))
	// The response must not leak the digest.
	assert.NotContains(t, rr.Body.String(), stored.Password)
}

func TestRegister_EmptyFieldsRejected(t *testing.T) {
	h, _, _, _ := newTestHandler()

	cases := []models.RegisterRequest{
		{Username: "", Email: "a@x.com", Password: "pw"},
		{Username: "alice", Email: "", Password: "pw"},
		{Username: "alice", Email: "a@x.com", Password: ""},
		{Username: "   ", Email: "a@x.com", Password: "pw"},
		{Username: "alice", Email: "a@x.com", Password: "  \t"},
	}
	for _, c := range cases {
		rr := doJSON(t, h.Register, http.MethodPost, "/api/auth/register", c)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "case %+v", c)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h, _, _, _ := newTestHandler()
	register(t, h, "alice", "pw1", "a@x.com")

	rr := doJSON(t, h.Register, http.MethodPost, "/api/auth/register",
		models.RegisterRequest{Username: "alice", Email: "b@x.com", Password: "pw2"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLogin_SucceedsRightAfterSignup(t *testing.T) {
	h, _, sessions, _ := newTestHandler()
	register(t, h, "alice", "pw1", "a@x.com")

	rr := login(t, h, "alice", "pw1")
	require.Equal(t, http.StatusOK, rr.Code)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)

	sess, err := sessions.Get(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "alice", sess.Username)
}

func TestRegister_CredentialsStoredAsEntered(t *testing.T) {
	h, users, _, _ := newTestHandler()
	register(t, h, " alice ", " pw ", "a@x.com")

	// Username keeps its padding.
	stored := users.users[" alice "]
	require.NotNil(t, stored)
	assert.Equal(t, " alice ", stored.Username)

	// The exact signup pair logs in; the trimmed variant does not.
	rr := login(t, h, " alice ", " pw ")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = login(t, h, " alice ", "pw")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	h, _, _, _ := newTestHandler()
	register(t, h, "alice", "pw1", "a@x.com")

	wrongPw := login(t, h, "alice", "pw2")
	unknown := login(t, h, "nobody", "pw1")

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	// No user enumeration: identical responses.
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestLogout_DestroysSession(t *testing.T) {
	h, _, sessions, _ := newTestHandler()
	register(t, h, "alice", "pw1", "a@x.com")
	rr := login(t, h, "alice", "pw1")
	sid := rr.Result().Cookies()[0].Value

	out := doJSON(t, h.Logout, http.MethodPost, "/api/auth/logout", nil,
		&http.Cookie{Name: SessionCookie, Value: sid})
	require.Equal(t, http.StatusOK, out.Code)

	sess, err := sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	assert.Nil(t, sess, "session value must be gone entirely")
	assert.Contains(t, sessions.deleted, sid)
}

func TestMe(t *testing.T) {
	h, users, _, _ := newTestHandler()
	register(t, h, "alice", "pw1", "a@x.com")
	u := users.users["alice"]

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), "user_id", u.ID))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.Username)
}
