package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-portfolio-api/internal/core/config"
	"go-portfolio-api/internal/domain"
	"go-portfolio-api/internal/service"
	httpez "go-portfolio-api/internal/transport/http/ez"
	mdw "go-portfolio-api/internal/transport/http/middleware"
)

type authModule struct {
	auth *service.AuthService
	cfg  *config.Config
}

func newAuthModule(d Deps) *authModule { return &authModule{auth: d.Auth, cfg: d.Cfg} }

// 认证路由先挂，favicon 之类的兜底后匹配
func (m *authModule) Priority() int { return 10 }

type adminView struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

func viewOf(u *domain.AdminUser) adminView {
	return adminView{ID: u.ID, Username: u.Username, ProfileImageURL: u.ProfileImageURL}
}

func (m *authModule) MountAPI(api *gin.RouterGroup) {
	// 登录与建号单独走每 IP 限速，防爆破
	limited := api.Group("")
	limited.Use(mdw.RateLimitPerIP(5, 10))
	ezLimited := httpez.New(limited)

	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[loginIn, adminView](ezLimited, httpez.Action[loginIn, adminView]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (adminView, error) {
			sess, err := m.auth.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					// 用户名不存在与密码错误同文案
					return adminView{}, httpez.Unauthorized("invalid credentials")
				}
				return adminView{}, httpez.Internal("login failed", err)
			}
			m.setCookie(c, sess.Token, int(service.SessionTTL/time.Second))

			u, err := m.auth.Authenticate(c.Request.Context(), sess.Token)
			if err != nil {
				return adminView{}, httpez.Internal("login failed", err)
			}
			return viewOf(u), nil
		},
	})

	// 首次建号，仅当尚无管理员
	type setupIn struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Password string `json:"password" binding:"required,min=8"`
	}
	httpez.RegisterAction[setupIn, adminView](ezLimited, httpez.Action[setupIn, adminView]{
		Method: http.MethodPost,
		Path:   "/auth/setup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *setupIn) (adminView, error) {
			u, err := m.auth.Setup(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				if errors.Is(err, domain.ErrAdminExists) {
					return adminView{}, httpez.Forbidden("setup already complete")
				}
				return adminView{}, httpez.Internal("setup failed", err)
			}
			return viewOf(u), nil
		},
	})

	ez := httpez.New(api)

	// 建号状态探针：管理界面据此决定展示建号还是登录表单
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/auth/setup-status",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			exists, err := m.auth.AdminExists(c.Request.Context())
			if err != nil {
				return nil, httpez.Internal("setup status failed", err)
			}
			return gin.H{"needsSetup": !exists}, nil
		},
	})

	// 会话探针：管理界面用它决定是否放行
	httpez.RegisterAction[struct{}, adminView](ez, httpez.Action[struct{}, adminView]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (adminView, error) {
			token, _ := c.Cookie(m.cfg.Session.CookieName)
			u, err := m.auth.Authenticate(c.Request.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return adminView{}, httpez.Unauthorized("unauthorized")
				}
				return adminView{}, httpez.Internal("session check failed", err)
			}
			return viewOf(u), nil
		},
	})

	// 登出：服务端销毁 + 清 cookie
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			token, _ := c.Cookie(m.cfg.Session.CookieName)
			if err := m.auth.Logout(c.Request.Context(), token); err != nil {
				return nil, httpez.Internal("logout failed", err)
			}
			m.setCookie(c, "", -1)
			return gin.H{"ok": true}, nil
		},
	})
}

func (m *authModule) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	type pwIn struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=8"`
	}
	httpez.RegisterAction[pwIn, gin.H](ez, httpez.Action[pwIn, gin.H]{
		Method: http.MethodPut,
		Path:   "/auth/password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *pwIn) (gin.H, error) {
			id := c.GetString(mdw.KeyAdminID)
			err := m.auth.ChangePassword(c.Request.Context(), id, in.CurrentPassword, in.NewPassword)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					return nil, httpez.Unauthorized("invalid credentials")
				}
				return nil, httpez.Internal("password change failed", err)
			}
			return gin.H{"ok": true}, nil
		},
	})

	type imgIn struct {
		ProfileImageURL *string `json:"profileImageUrl"`
	}
	httpez.RegisterAction[imgIn, adminView](ez, httpez.Action[imgIn, adminView]{
		Method: http.MethodPut,
		Path:   "/auth/profile-image",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *imgIn) (adminView, error) {
			id := c.GetString(mdw.KeyAdminID)
			u, err := m.auth.SetProfileImage(c.Request.Context(), id, in.ProfileImageURL)
			if err != nil {
				return adminView{}, httpez.Internal("profile image update failed", err)
			}
			if u == nil {
				return adminView{}, httpez.NotFound("admin not found")
			}
			return viewOf(u), nil
		},
	})
}

func (m *authModule) setCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := m.cfg.Session.Secure || c.Request.TLS != nil
	c.SetCookie(m.cfg.Session.CookieName, token, maxAge, "/", m.cfg.Session.CookieDomain, secure, true)
}
