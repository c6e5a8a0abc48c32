package ws

import (
	"LocalServer/modules/kit/logx"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server 把 HTTP 请求升级成 websocket 并交给 Registry。
type Server struct {
	registry *Registry
	upgrader websocket.Upgrader
	log      logx.Logger
}

func NewServer(r *Registry, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		registry: r,
		upgrader: websocket.Upgrader{
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		// Upgrade 失败时已经回写了 HTTP 错误
		s.log.WithContext(req.Context()).Warn("websocket upgrade error", zap.Error(err))
		return
	}
	// http.Server 的读写超时会残留在被劫持的连接上，存活交给心跳判断
	_ = wsConn.NetConn().SetDeadline(time.Time{})
	if _, err := s.registry.Accept(wsConn); err != nil {
		logx.ReportSysErrorWithLoggerContext(req.Context(), s.log, logx.NewSysLog("ws accept", err))
	}
}

// IsUpgrade 判断请求是否在要求 websocket 升级。
func IsUpgrade(req *http.Request) bool {
	return websocket.IsWebSocketUpgrade(req)
}
