package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appcache "go-portfolio-api/internal/core/cache"
	"go-portfolio-api/internal/domain"
	httpez "go-portfolio-api/internal/transport/http/ez"
)

const cacheKeyProfile = "portfolio:profile"

type profileModule struct {
	store domain.Store
	cache *appcache.Cache
}

func newProfileModule(d Deps) *profileModule {
	return &profileModule{store: d.Store, cache: d.Cache}
}

func (m *profileModule) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	// 持久化后端在首写前合法为空，返回 null data
	httpez.RegisterAction[struct{}, *domain.Profile](ez, httpez.Action[struct{}, *domain.Profile]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Profile, error) {
			p, err := m.getCached(c.Request.Context())
			if err != nil {
				return nil, httpez.Internal("get profile failed", err)
			}
			return p, nil
		},
	})
}

func (m *profileModule) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	// upsert：无记录时以默认值+patch 创建
	httpez.RegisterAction[domain.ProfilePatch, *domain.Profile](ez, httpez.Action[domain.ProfilePatch, *domain.Profile]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.ProfilePatch) (*domain.Profile, error) {
			p, err := m.store.UpdateProfile(c.Request.Context(), *in)
			if err != nil {
				return nil, httpez.Internal("update profile failed", err)
			}
			if m.cache != nil {
				m.cache.Invalidate(c.Request.Context(), cacheKeyProfile)
			}
			return p, nil
		},
	})
}

func (m *profileModule) getCached(ctx context.Context) (*domain.Profile, error) {
	if m.cache == nil {
		return m.store.Profile(ctx)
	}
	return appcache.GetOrLoadJSON[domain.Profile](m.cache, ctx, cacheKeyProfile, cacheTTL, m.store.Profile)
}
