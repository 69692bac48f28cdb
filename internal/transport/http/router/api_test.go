package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-portfolio-api/internal/core/config"
	"go-portfolio-api/internal/domain"
	"go-portfolio-api/internal/mailer"
	"go-portfolio-api/internal/repo"
	"go-portfolio-api/internal/service"
)

type fakeRelay struct {
	fail  bool
	calls []mailer.ContactMessage
	to    string
}

func (f *fakeRelay) SendContact(_ context.Context, to string, msg mailer.ContactMessage) error {
	if f.fail {
		return fmt.Errorf("%w: smtp down", domain.ErrRelayDelivery)
	}
	f.to = to
	f.calls = append(f.calls, msg)
	return nil
}

type testEnv struct {
	engine *gin.Engine
	store  *repo.MemStore
	relay  *fakeRelay
	cookie *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Session.CookieName = "portfolio_session"
	cfg.Mail.To = "inbox@example.com"

	store := repo.NewMemStore()
	relay := &fakeRelay{}
	engine := NewAPIEngine(zap.NewNop(), Deps{
		Cfg:   cfg,
		Store: store,
		Auth:  service.NewAuthService(store),
		Relay: relay,
	})
	return &testEnv{engine: engine, store: store, relay: relay}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "portfolio_session" {
			if ck.MaxAge < 0 {
				e.cookie = nil
			} else {
				e.cookie = ck
			}
		}
	}

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (e *testEnv) setupAndLogin(t *testing.T) {
	t.Helper()
	w, _ := e.do(t, http.MethodPost, "/api/auth/setup", gin.H{"username": "rod", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "rod", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, e.cookie)
}

func TestEndToEndAdminFlow(t *testing.T) {
	e := newTestEnv(t)

	// 未建号也未登录：探针 401，变更路由 401
	w, _ := e.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = e.do(t, http.MethodPost, "/api/projects", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	e.setupAndLogin(t)

	w, env := e.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct{ Username string }
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "rod", me.Username)

	// 建项走默认值
	w, env = e.do(t, http.MethodPost, "/api/projects", gin.H{"title": "Site A", "imageUrl": "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	var created domain.Project
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "monitor", created.DeviceType)
	assert.Equal(t, []string{}, created.Tags)
	assert.Equal(t, "0", created.OrderIndex)

	w, env = e.do(t, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Project
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Site A", list[0].Title)

	// 登出后同一会话立即失效
	w, _ = e.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(t, http.MethodPost, "/api/projects", gin.H{"title": "Site B"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetupOnlyOnce(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/auth/setup-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st struct{ NeedsSetup bool }
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.True(t, st.NeedsSetup)

	w, _ = e.do(t, http.MethodPost, "/api/auth/setup", gin.H{"username": "rod", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = e.do(t, http.MethodGet, "/api/auth/setup-status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.False(t, st.NeedsSetup)

	w, env = e.do(t, http.MethodPost, "/api/auth/setup", gin.H{"username": "mallory", "password": "password2"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 403, env.Code)
}

func TestLoginUniformErrorMessage(t *testing.T) {
	e := newTestEnv(t)
	w, _ := e.do(t, http.MethodPost, "/api/auth/setup", gin.H{"username": "rod", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)

	w1, env1 := e.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "ghost", "password": "password1"})
	w2, env2 := e.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "rod", "password": "wrong-password"})

	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	// 文案一致，不暴露用户名是否存在
	assert.Equal(t, env1.Msg, env2.Msg)
}

func TestSessionCookieAttributes(t *testing.T) {
	e := newTestEnv(t)
	e.setupAndLogin(t)

	require.NotNil(t, e.cookie)
	assert.True(t, e.cookie.HttpOnly)
	assert.Equal(t, "/", e.cookie.Path)
	assert.Equal(t, int(service.SessionTTL.Seconds()), e.cookie.MaxAge)
}

func TestProjectUpdateAndDelete(t *testing.T) {
	e := newTestEnv(t)
	e.setupAndLogin(t)

	_, env := e.do(t, http.MethodPost, "/api/projects", gin.H{"title": "Old", "description": "d", "orderIndex": "5"})
	var p domain.Project
	require.NoError(t, json.Unmarshal(env.Data, &p))

	w, env := e.do(t, http.MethodPut, "/api/projects/"+p.ID, gin.H{"title": "New"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.Project
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "d", updated.Description)
	assert.Equal(t, "5", updated.OrderIndex)

	w, _ = e.do(t, http.MethodPut, "/api/projects/missing-id", gin.H{"title": "New"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = e.do(t, http.MethodDelete, "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = e.do(t, http.MethodDelete, "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectValidation(t *testing.T) {
	e := newTestEnv(t)
	e.setupAndLogin(t)

	w, _ := e.do(t, http.MethodPost, "/api/projects", gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = e.do(t, http.MethodPost, "/api/projects", gin.H{"title": "x", "deviceType": "toaster"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicProfileAndUpdate(t *testing.T) {
	e := newTestEnv(t)

	// 进程内后端有种子 Profile
	w, env := e.do(t, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p domain.Profile
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.NotEmpty(t, p.Bio1)

	// 未登录不可改
	w, _ = e.do(t, http.MethodPut, "/api/profile", gin.H{"bio1": "hacked"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	e.setupAndLogin(t)
	w, env = e.do(t, http.MethodPut, "/api/profile", gin.H{"bio1": "fresh bio"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "fresh bio", p.Bio1)
	assert.NotEmpty(t, p.Skills) // 其余字段保留
}

func TestContactRelay(t *testing.T) {
	e := newTestEnv(t)

	in := gin.H{"name": "Visitor", "email": "v@example.com", "message": "hello"}

	w, _ := e.do(t, http.MethodPost, "/api/contact", in)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, e.relay.calls, 1)
	assert.Equal(t, "inbox@example.com", e.relay.to)
	assert.Equal(t, "Visitor", e.relay.calls[0].Name)

	// 投递失败明确回 502，不静默吞掉
	e.relay.fail = true
	w, env := e.do(t, http.MethodPost, "/api/contact", in)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 502, env.Code)

	// 缺字段直接 400，不触发转发
	e.relay.fail = false
	before := len(e.relay.calls)
	w, _ = e.do(t, http.MethodPost, "/api/contact", gin.H{"name": "x", "email": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, e.relay.calls, before)
}

func TestPasswordChangeFlow(t *testing.T) {
	e := newTestEnv(t)
	e.setupAndLogin(t)

	w, _ := e.do(t, http.MethodPut, "/api/auth/password", gin.H{"currentPassword": "wrong", "newPassword": "password2"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = e.do(t, http.MethodPut, "/api/auth/password", gin.H{"currentPassword": "password1", "newPassword": "password2"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = e.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = e.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "rod", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = e.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "rod", "password": "password2"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileImageUpdate(t *testing.T) {
	e := newTestEnv(t)
	e.setupAndLogin(t)

	w, env := e.do(t, http.MethodPut, "/api/auth/profile-image", gin.H{"profileImageUrl": "https://cdn.example.com/me.png"})
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ProfileImageURL *string `json:"profileImageUrl"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	require.NotNil(t, me.ProfileImageURL)
	assert.Equal(t, "https://cdn.example.com/me.png", *me.ProfileImageURL)

	// 置空
	w, env = e.do(t, http.MethodPut, "/api/auth/profile-image", gin.H{"profileImageUrl": nil})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Nil(t, me.ProfileImageURL)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsExposed(t *testing.T) {
	e := newTestEnv(t)

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	e.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")
	assert.Contains(t, w.Body.String(), "portfolio_http_request_duration_seconds")
}
