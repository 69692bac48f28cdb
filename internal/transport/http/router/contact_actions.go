package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-portfolio-api/internal/core/config"
	"go-portfolio-api/internal/domain"
	"go-portfolio-api/internal/mailer"
	httpez "go-portfolio-api/internal/transport/http/ez"
	mdw "go-portfolio-api/internal/transport/http/middleware"
)

type contactModule struct {
	store domain.Store
	relay mailer.Relay
	cfg   *config.Config
}

func newContactModule(d Deps) *contactModule {
	return &contactModule{store: d.Store, relay: d.Relay, cfg: d.Cfg}
}

func (m *contactModule) MountAPI(api *gin.RouterGroup) {
	limited := api.Group("")
	limited.Use(mdw.RateLimitPerIP(2, 5))
	ez := httpez.New(limited)

	type contactIn struct {
		Name    string `json:"name" binding:"required,max=191"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required,max=10000"`
	}
	// 只转发，不落库；投递失败明确回给调用方
	httpez.RegisterAction[contactIn, gin.H](ez, httpez.Action[contactIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/contact",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *contactIn) (gin.H, error) {
			to, err := m.recipient(c)
			if err != nil {
				return nil, httpez.BadGateway("delivery failed")
			}
			err = m.relay.SendContact(c.Request.Context(), to, mailer.ContactMessage{
				Name:    in.Name,
				Email:   in.Email,
				Message: in.Message,
			})
			if err != nil {
				if errors.Is(err, domain.ErrRelayDelivery) {
					return nil, httpez.BadGateway("delivery failed")
				}
				return nil, httpez.Internal("contact failed", err)
			}
			return gin.H{"ok": true}, nil
		},
	})
}

// 收件人：mail.to 配置优先，其次 Profile 的展示邮箱
func (m *contactModule) recipient(c *gin.Context) (string, error) {
	if m.cfg.Mail.To != "" {
		return m.cfg.Mail.To, nil
	}
	p, err := m.store.Profile(c.Request.Context())
	if err != nil {
		return "", err
	}
	if p == nil || p.ContactEmail == "" {
		return "", domain.ErrRelayDelivery
	}
	return p.ContactEmail, nil
}
