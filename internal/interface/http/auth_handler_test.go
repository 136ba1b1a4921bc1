package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edustream/auth-service/internal/application"
	"github.com/edustream/auth-service/internal/domain/entity"
	repo "github.com/edustream/auth-service/internal/domain/repository"
	"github.com/edustream/auth-service/internal/interface/middleware"
	"github.com/edustream/auth-service/pkg/helpers"
	"github.com/edustream/auth-service/pkg/validation"
)

// --- in-memory collaborators ---

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
	seq  int
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (r *memUsers) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	norm := entity.NormalizeEmail(u.Email)
	for _, e := range r.byID {
		if e.Email == norm {
			return repo.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.Email = norm
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	norm := entity.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email == norm {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *memUsers) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUsers) UpdatePassword(ctx context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (r *memUsers) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.IsActive = active
	return nil
}

type memRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newMemRevoker() *memRevoker { return &memRevoker{entries: map[string]time.Time{}} }

func (m *memRevoker) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if time.Until(expiresAt) <= 0 {
		return nil
	}
	m.entries[token] = expiresAt
	return nil
}

func (m *memRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[token]
	if !ok || time.Now().After(exp) {
		return false, nil
	}
	return true, nil
}

// --- test server ---

type testEnv struct {
	engine *gin.Engine
	users  *memUsers
	jwt    *helpers.JWTManager
}

var initValidation sync.Once

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	initValidation.Do(validation.Init)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := newMemUsers()
	revoker := newMemRevoker()
	jwt := helpers.NewJWTManager("test-secret", time.Hour, 0)
	svc := application.NewService(users, jwt, helpers.NewPasswordHasher(bcrypt.MinCost), revoker, logger)
	h := NewAuthHandler(svc, logger)
	admin := NewAdminHandler(svc, logger)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	authed := r.Group("/", middleware.Auth(revoker, jwt, logger))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
	authed.GET("/auth/verify", h.Verify)

	adm := r.Group("/admin", middleware.Auth(revoker, jwt, logger), middleware.RequireRole(entity.RoleAdmin))
	adm.GET("/users/:id", admin.GetUser)
	adm.PATCH("/users/:id/status", admin.SetUserStatus)

	return &testEnv{engine: r, users: users, jwt: jwt}
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return w, out
}

func (e *testEnv) register(t *testing.T, email, password, name string) (string, map[string]any) {
	t.Helper()
	w, body := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": password, "fullName": name,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %v", body)
	data := body["data"].(map[string]any)
	return data["token"].(string), data["user"].(map[string]any)
}

// --- tests ---

func TestRegisterLoginLogoutScenario(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// register -> 201, token decodes to the registered email
	t1, user := env.register(t, "a@x.com", "P@ssw0rd", "Ann")
	claims1, err := env.jwt.Parse(t1)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims1.Email)
	assert.Equal(t, user["id"], claims1.Subject)

	// login -> 200, fresh token, same subject
	time.Sleep(1100 * time.Millisecond) // distinct iat second so t2 != t1
	w, body := env.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "a@x.com", "password": "P@ssw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %v", body)
	t2 := body["data"].(map[string]any)["token"].(string)
	require.NotEqual(t, t1, t2)
	claims2, err := env.jwt.Parse(t2)
	require.NoError(t, err)
	assert.Equal(t, claims1.Subject, claims2.Subject)

	// logout with t2 -> 200
	w, _ = env.do(t, http.MethodPost, "/auth/logout", t2, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// t2 is now rejected as revoked
	w, body = env.do(t, http.MethodGet, "/auth/me", t2, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_BLACKLISTED", body["code"])

	// t1 is an independent token and still works
	w, body = env.do(t, http.MethodGet, "/auth/me", t1, nil)
	assert.Equal(t, http.StatusOK, w.Code, "body: %v", body)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register(t, "a@x.com", "P@ssw0rd", "Ann")

	w, body := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "A@x.com", "password": "0therPwd!", "fullName": "Ann Again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_EXISTS", body["code"])
	assert.Equal(t, false, body["success"])
}

func TestRegister_ValidationFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "not-an-email", "password": "short", "fullName": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	details := body["error"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "fullName")
}

func TestRegister_WireFieldNames(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Clients send camelCase; snake_case payloads must not bind.
	_, user := env.register(t, "ann@x.com", "P@ssw0rd", "Ann")
	assert.Equal(t, "Ann", user["fullName"])
	assert.NotContains(t, user, "full_name")
	assert.Contains(t, user, "isActive")
	assert.Contains(t, user, "createdAt")

	w, body := env.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "bob@x.com", "password": "P@ssw0rd", "full_name": "Bob",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Contains(t, body["error"].(map[string]any), "fullName")
}

func TestLogin_ErrorResponses(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, user := env.register(t, "a@x.com", "P@ssw0rd", "Ann")

	// wrong password and unknown email produce the same envelope
	w1, b1 := env.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "nope-nope"})
	w2, b2 := env.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "ghost@x.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, b1["code"], b2["code"])
	assert.Equal(t, b1["message"], b2["message"])

	// disabled account -> 403 ACCOUNT_DISABLED
	require.NoError(t, env.users.SetActive(context.Background(), user["id"].(string), false))
	w3, b3 := env.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "P@ssw0rd"})
	assert.Equal(t, http.StatusForbidden, w3.Code)
	assert.Equal(t, "ACCOUNT_DISABLED", b3["code"])
}

func TestMe_AccountDeletedAfterIssue(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token, user := env.register(t, "a@x.com", "P@ssw0rd", "Ann")

	env.users.mu.Lock()
	delete(env.users.byID, user["id"].(string))
	env.users.mu.Unlock()

	w, body := env.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", body["code"])
}

func TestVerify_ReturnsDecodedIdentity(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token, user := env.register(t, "a@x.com", "P@ssw0rd", "Ann")

	w, body := env.do(t, http.MethodGet, "/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, user["id"], data["id"])
	assert.Equal(t, "a@x.com", data["email"])
	assert.Equal(t, "user", data["role"])
}

func TestAdmin_RoleEnforcement(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	userToken, user := env.register(t, "a@x.com", "P@ssw0rd", "Ann")
	uid := user["id"].(string)

	// plain user -> 403 FORBIDDEN (distinct from not-authenticated)
	w, body := env.do(t, http.MethodGet, "/admin/users/"+uid, userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	// no credential at all -> 401
	w, body = env.do(t, http.MethodGet, "/admin/users/"+uid, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", body["code"])

	// admin -> allowed; disable the account, then the user cannot log in
	adminTok, _, err := env.jwt.Issue(&entity.User{ID: "admin-1", Email: "root@x.com", Role: entity.RoleAdmin})
	require.NoError(t, err)

	w, body = env.do(t, http.MethodPatch, "/admin/users/"+uid+"/status", adminTok, gin.H{"active": false})
	require.Equal(t, http.StatusOK, w.Code, "body: %v", body)
	got := body["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, false, got["isActive"])

	w, body = env.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "a@x.com", "password": "P@ssw0rd"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCOUNT_DISABLED", body["code"])
}

func TestResponses_NeverLeakPasswordHash(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token, user := env.register(t, "a@x.com", "P@ssw0rd", "Ann")
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	_, body := env.do(t, http.MethodGet, "/auth/me", token, nil)
	me := body["data"].(map[string]any)["user"].(map[string]any)
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "password_hash")
}
