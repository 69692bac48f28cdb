package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-portfolio-api/internal/core/cache"
	"go-portfolio-api/internal/core/config"
	"go-portfolio-api/internal/domain"
	"go-portfolio-api/internal/mailer"
	"go-portfolio-api/internal/service"
	mdw "go-portfolio-api/internal/transport/http/middleware"
)

// Deps 启动时构造一次，显式传入，不走包级全局
type Deps struct {
	Cfg   *config.Config
	Store domain.Store
	Auth  *service.AuthService
	Relay mailer.Relay
	Cache *cache.Cache // 可为 nil（未配置 redis）
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	if d.Cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		corsMiddleware(d.Cfg),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// 会话守卫分组：所有变更路由挂这里
	admin := api.Group("")
	admin.Use(mdw.RequireSession(d.Auth, d.Cfg.Session.CookieName))

	reg := NewRegistry()
	reg.Add(
		newAuthModule(d),
		newProjectModule(d),
		newProfileModule(d),
		newContactModule(d),
	)
	reg.MountAPI(api)
	reg.MountAdmin(admin)

	return r
}

// cookie 走凭证，跨源时不能用通配 origin
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	if len(cfg.App.CORSOrigins) == 0 {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowOrigins = cfg.App.CORSOrigins
	cc.AllowCredentials = true
	cc.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	return cors.New(cc)
}
