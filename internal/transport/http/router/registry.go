package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// 模块可实现其中一个或两个接口
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：控制挂载顺序（数值越小越先挂），不实现默认 100
type prioritizer interface{ Priority() int }

// Registry 每个引擎一份，避免测试里重复建引擎时路由重复注册
type Registry struct {
	mods []any
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Add(mods ...any) { r.mods = append(r.mods, mods...) }

// MountAPI 挂载公共路由
func (r *Registry) MountAPI(api *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if am, ok := m.(APIModule); ok {
			am.MountAPI(api)
		}
	}
}

// MountAdmin 挂载会话守卫后的管理路由
func (r *Registry) MountAdmin(admin *gin.RouterGroup) {
	for _, m := range r.sorted() {
		if am, ok := m.(AdminModule); ok {
			am.MountAdmin(admin)
		}
	}
}

func (r *Registry) sorted() []any {
	mods := append([]any(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	return mods
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
