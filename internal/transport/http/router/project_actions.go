package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appcache "go-portfolio-api/internal/core/cache"
	"go-portfolio-api/internal/domain"
	httpez "go-portfolio-api/internal/transport/http/ez"
)

const (
	cacheKeyProjects = "portfolio:projects"
	cacheTTL         = 5 * time.Minute
)

type projectModule struct {
	store domain.Store
	cache *appcache.Cache
}

func newProjectModule(d Deps) *projectModule {
	return &projectModule{store: d.Store, cache: d.Cache}
}

func (m *projectModule) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api)

	// 公共读：按 orderIndex 数值升序
	httpez.RegisterAction[struct{}, []domain.Project](ez, httpez.Action[struct{}, []domain.Project]{
		Method: http.MethodGet,
		Path:   "/projects",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Project, error) {
			ps, err := m.listCached(c.Request.Context())
			if err != nil {
				return nil, httpez.Internal("list projects failed", err)
			}
			if ps == nil {
				ps = []domain.Project{}
			}
			return ps, nil
		},
	})
}

func (m *projectModule) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	type createIn struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		ImageURL    string   `json:"imageUrl"`
		DeviceType  string   `json:"deviceType" binding:"omitempty,oneof=monitor phone tablet"`
		Tags        []string `json:"tags"`
		OrderIndex  string   `json:"orderIndex"`
	}
	httpez.RegisterAction[createIn, *domain.Project](ez, httpez.Action[createIn, *domain.Project]{
		Method: http.MethodPost,
		Path:   "/projects",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *createIn) (*domain.Project, error) {
			p, err := m.store.CreateProject(c.Request.Context(), domain.Project{
				Title:       in.Title,
				Description: in.Description,
				ImageURL:    in.ImageURL,
				DeviceType:  in.DeviceType,
				Tags:        in.Tags,
				OrderIndex:  in.OrderIndex,
			})
			if err != nil {
				return nil, httpez.Internal("create project failed", err)
			}
			m.invalidate(c.Request.Context())
			return p, nil
		},
	})

	httpez.RegisterAction[domain.ProjectPatch, *domain.Project](ez, httpez.Action[domain.ProjectPatch, *domain.Project]{
		Method: http.MethodPut,
		Path:   "/projects/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.ProjectPatch) (*domain.Project, error) {
			p, err := m.store.UpdateProject(c.Request.Context(), c.Param("id"), *in)
			if err != nil {
				return nil, httpez.Internal("update project failed", err)
			}
			if p == nil {
				return nil, httpez.NotFound("project not found")
			}
			m.invalidate(c.Request.Context())
			return p, nil
		},
	})

	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/projects/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			ok, err := m.store.DeleteProject(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("delete project failed", err)
			}
			if !ok {
				return nil, httpez.NotFound("project not found")
			}
			m.invalidate(c.Request.Context())
			return gin.H{"id": id}, nil
		},
	})
}

func (m *projectModule) listCached(ctx context.Context) ([]domain.Project, error) {
	if m.cache == nil {
		return m.store.ListProjects(ctx)
	}
	ps, err := appcache.GetOrLoadJSON[[]domain.Project](m.cache, ctx, cacheKeyProjects, cacheTTL,
		func(ctx context.Context) (*[]domain.Project, error) {
			list, err := m.store.ListProjects(ctx)
			if err != nil {
				return nil, err
			}
			return &list, nil
		})
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, nil
	}
	return *ps, nil
}

func (m *projectModule) invalidate(ctx context.Context) {
	if m.cache != nil {
		m.cache.Invalidate(ctx, cacheKeyProjects)
	}
}
