package static

import (
	"net/http"
	"path"
	"strings"

	"LocalServer/internal/shared/transport"
	"LocalServer/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const indexFile = "index.html"

type Handler struct {
	cache *Cache
	log   logx.Logger
}

func NewHandler(c *Cache, l logx.Logger) *Handler {
	if l == nil {
		l = logx.Nop()
	}
	return &Handler{cache: c, log: l}
}

// Serve 从缓存应答 GET 请求：命中 200 原样返回，未命中 404 并记一条 WARN。
func (h *Handler) Serve(c *gin.Context) {
	name := TargetName(c.Request.URL.Path)
	data, ok := h.cache.Get(name)
	if !ok {
		ctx := c.Request.Context()
		transport.SetErrorReason(ctx, "asset not found: "+name)
		h.log.WithContext(ctx).Warn("static asset not found",
			zap.String("file", name),
			zap.String("url", c.Request.URL.String()),
		)
		c.String(http.StatusNotFound, "404 Not Found")
		return
	}
	c.Data(http.StatusOK, Classify(name), data)
}

// TargetName 取 URL 的最后一段作为文件名；以 / 结尾、为空或是 index.htm(l) 时统一成 index.html。
func TargetName(urlPath string) string {
	if urlPath == "" || strings.HasSuffix(urlPath, "/") {
		return indexFile
	}
	name := path.Base(urlPath)
	switch name {
	case "", ".", "/", "index.html", "index.htm":
		return indexFile
	}
	return name
}
