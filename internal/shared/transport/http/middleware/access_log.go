package middleware

import (
	"LocalServer/internal/shared/transport"
	"LocalServer/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// AccessLog 每个 HTTP 请求一条访问日志，业务码按响应状态码折算。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := transport.Begin(c.Request.Context(), transport.ProtoHTTP, c.Request.Method+" "+c.Request.URL.Path)
		transport.SetPeer(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		transport.SetStatus(ctx, c.Writer.Status())
		transport.Finish(ctx, log)
	}
}
