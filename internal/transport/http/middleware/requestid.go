package middleware

import (
	"github.com/gin-gonic/gin"

	"go-portfolio-api/pkg/utils"
)

const KeyRequestID = "X-Request-ID"

// RequestID 透传上游带来的请求 ID，缺失时生成一个；
// 写回响应头，配合访问日志的 rid 字段串起同一请求
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" {
			rid = utils.NewID()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Next()
	}
}
