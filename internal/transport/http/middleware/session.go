package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-portfolio-api/internal/domain"
	"go-portfolio-api/internal/service"
	resp "go-portfolio-api/internal/transport/http/response"
)

// 会话校验通过后写入 gin context 的键
const (
	KeyAdminID  = "adminId"
	KeyUsername = "adminUsername"
)

// RequireSession 守卫所有变更路由：cookie 里的会话令牌无效/过期/
// 指向已不存在的管理员时，先于任何存储写入被拒绝
func RequireSession(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, "session check failed"))
			return
		}
		c.Set(KeyAdminID, u.ID)
		c.Set(KeyUsername, u.Username)
		c.Next()
	}
}
