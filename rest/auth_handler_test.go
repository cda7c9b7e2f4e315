package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goBasket "github.com/MrEthical07/goBasket"
	"github.com/MrEthical07/goBasket/tenant"
)

type memoryDirectory struct {
	mu      sync.Mutex
	byEmail map[string]*goBasket.UserRecord
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{byEmail: make(map[string]*goBasket.UserRecord)}
}

func (d *memoryDirectory) FindByEmail(_ context.Context, email string) (*goBasket.UserRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.byEmail[strings.ToLower(email)]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, goBasket.ErrUserNotFound
}

func (d *memoryDirectory) Create(_ context.Context, email, passwordHash string) (*goBasket.UserRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := d.byEmail[key]; ok {
		return nil, goBasket.ErrAccountExists
	}
	u := &goBasket.UserRecord{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: &passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	d.byEmail[key] = u
	copied := *u
	return &copied, nil
}

type memoryTenants struct {
	mu     sync.Mutex
	bySlug map[string]tenant.Row
	err    error
}

func newMemoryTenants() *memoryTenants {
	return &memoryTenants{bySlug: make(map[string]tenant.Row)}
}

func (m *memoryTenants) add(slug string, id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySlug[slug] = tenant.Row{ID: id, Slug: slug}
}

func (m *memoryTenants) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *memoryTenants) FindTenantBySlug(_ context.Context, slug string) (*tenant.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if row, ok := m.bySlug[strings.ToLower(slug)]; ok {
		return &row, nil
	}
	return nil, nil
}

func (m *memoryTenants) FindTenantByID(_ context.Context, id uuid.UUID) (*tenant.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, row := range m.bySlug {
		if row.ID == id {
			copied := row
			return &copied, nil
		}
	}
	return nil, nil
}

type testServer struct {
	engine  *goBasket.Engine
	router  http.Handler
	tenants *memoryTenants
	redis   *miniredis.Miniredis
}

func newTestServer(t *testing.T, cfg RouterConfig) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engineCfg := goBasket.DefaultConfig()
	engineCfg.Password.Memory = 8 * 1024
	engineCfg.Password.Time = 1
	engineCfg.Password.Parallelism = 1
	engineCfg.Password.SaltLength = 16
	engineCfg.Password.KeyLength = 16

	tenants := newMemoryTenants()
	engine, err := goBasket.NewEngine(engineCfg, nil, newMemoryDirectory(), tenants, client)
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	return &testServer{
		engine:  engine,
		router:  NewRouter(engine, discardLogger(), cfg),
		tenants: tenants,
		redis:   mr,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(jsonRequest("POST", "/v1/auth/register", `{"email":"alice@example.com","password":"hunter2hunter2"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)

	rec = s.do(jsonRequest("POST", "/v1/auth/login", `{"email":"alice@example.com","password":"hunter2hunter2"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((30 * time.Minute).Seconds()), cookie.MaxAge)
	assert.NotEmpty(t, cookie.Value)
}

func TestRegisterDuplicateReturnsConflict(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	body := `{"email":"alice@example.com","password":"hunter2hunter2"}`
	require.Equal(t, http.StatusCreated, s.do(jsonRequest("POST", "/v1/auth/register", body)).Code)
	assert.Equal(t, http.StatusConflict, s.do(jsonRequest("POST", "/v1/auth/register", body)).Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	require.Equal(t, http.StatusCreated,
		s.do(jsonRequest("POST", "/v1/auth/register", `{"email":"alice@example.com","password":"hunter2hunter2"}`)).Code)

	rec := s.do(jsonRequest("POST", "/v1/auth/login", `{"email":"alice@example.com","password":"wrong-password"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(jsonRequest("POST", "/v1/auth/login", `{"email":"nobody@example.com","password":"hunter2hunter2"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginValidatesBody(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(jsonRequest("POST", "/v1/auth/login", `{"email":"not-an-email","password":"hunter2hunter2"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(jsonRequest("POST", "/v1/auth/login", `{"email":"alice@example.com","password":"short"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(jsonRequest("POST", "/v1/auth/login", `{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeResolvesSession(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	require.Equal(t, http.StatusCreated,
		s.do(jsonRequest("POST", "/v1/auth/register", `{"email":"alice@example.com","password":"hunter2hunter2"}`)).Code)
	login := s.do(jsonRequest("POST", "/v1/auth/login", `{"email":"alice@example.com","password":"hunter2hunter2"}`))
	cookie := sessionCookieFrom(t, login)

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(cookie)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var me MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.NotNil(t, me.UserEmail)
	assert.Equal(t, "alice@example.com", *me.UserEmail)
	require.NotNil(t, me.UserID)
}

func TestMeWithoutCookieIsUnauthorized(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(httptest.NewRequest("GET", "/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithDeadTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "never-issued"})
	rec := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithAnonymousSessionIsUnauthorized(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	require.NoError(t, s.redis.Set("basket:sess:anon-token",
		`{"userId":null,"userEmail":null,"createdAt":"2026-01-02T03:04:05Z"}`))

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "anon-token"})
	rec := s.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookieAndIsIdempotent(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	require.Equal(t, http.StatusCreated,
		s.do(jsonRequest("POST", "/v1/auth/register", `{"email":"alice@example.com","password":"hunter2hunter2"}`)).Code)
	login := s.do(jsonRequest("POST", "/v1/auth/login", `{"email":"alice@example.com","password":"hunter2hunter2"}`))
	cookie := sessionCookieFrom(t, login)

	req := httptest.NewRequest("POST", "/v1/auth/logout", nil)
	req.AddCookie(cookie)
	rec := s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := sessionCookieFrom(t, rec)
	assert.Less(t, cleared.MaxAge, 0)
	assert.Empty(t, cleared.Value)

	// Same token again: still 200.
	req = httptest.NewRequest("POST", "/v1/auth/logout", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusOK, s.do(req).Code)

	// And the session really is gone.
	req = httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)
}

func TestMeWhenCacheDownIsServiceUnavailable(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	s.redis.Close()

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "whatever"})
	rec := s.do(req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	rec := s.do(httptest.NewRequest("GET", "/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
