package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"LocalServer/internal/shared/serverconfig"
	transporthttp "LocalServer/internal/shared/transport/http"
	"LocalServer/internal/shared/transport/ws"
	"LocalServer/internal/static"
	"LocalServer/modules/kit/errx"
	"LocalServer/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server 把静态资源缓存、websocket 连接注册表和 HTTP 监听组装在一起。
type Server struct {
	cfg      serverconfig.ServerConfig
	cache    *static.Cache
	registry *ws.Registry
	http     *transporthttp.Server
	listener Listener
	log      logx.Logger

	mu   sync.Mutex
	addr net.Addr
}

// New 同步加载静态资源并选好监听方式，任何一步失败都不会开始监听。
func New(cfg serverconfig.ServerConfig, h ws.Handler, l logx.Logger) (*Server, error) {
	if l == nil {
		l = logx.Nop()
	}
	cache, err := static.LoadCache(cfg.StaticDir)
	if err != nil {
		return nil, err
	}
	l.Info("static assets loaded",
		zap.String("dir", cfg.StaticDir),
		zap.Int("count", cache.Len()),
		zap.Strings("files", cache.Names()),
	)

	listener, err := newListener(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		cache:    cache,
		registry: ws.NewRegistry(h, cfg.HeartbeatInterval(), l),
		listener: listener,
		log:      l,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	s.http = transporthttp.NewHttpServer(cfg.Addr(), engine, l)
	s.routes(engine)
	return s, nil
}

func (s *Server) routes(engine *gin.Engine) {
	assets := static.NewHandler(s.cache, s.log)
	upgrader := ws.NewServer(s.registry, s.log)

	engine.GET("/", func(c *gin.Context) {
		if ws.IsUpgrade(c.Request) {
			upgrader.ServeHTTP(c.Writer, c.Request)
			return
		}
		assets.Serve(c)
	})
	engine.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.String(http.StatusMethodNotAllowed, "405 Method Not Allowed")
			return
		}
		assets.Serve(c)
	})
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler()
}

func (s *Server) Registry() *ws.Registry {
	return s.registry
}

func (s *Server) Cache() *static.Cache {
	return s.cache
}

func (s *Server) Config() serverconfig.ServerConfig {
	return s.cfg
}

// Addr 返回实际绑定的地址，Listen 之前为 nil。
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Listen 绑定端口，失败属于启动错误。
func (s *Server) Listen() (net.Listener, error) {
	ln, err := s.listener.Listen(s.cfg.Addr())
	if err != nil {
		return nil, errx.ErrStartup.WithData("addr", s.cfg.Addr()).WithCause(err)
	}
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	s.log.Info("server listening",
		zap.String("name", s.cfg.Name),
		zap.String("scheme", s.listener.Scheme()),
		zap.String("addr", ln.Addr().String()),
		zap.Duration("heartbeat", s.cfg.HeartbeatInterval()),
	)
	return ln, nil
}

// Run 绑定并提供服务，直到 ctx 结束或服务出错，然后优雅退出。
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.WatchAssets {
		s.watchAssets(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.log.Info("server stopping", zap.String("name", s.cfg.Name))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = errx.ErrUnavailable.WithData("addr", ln.Addr().String()).WithCause(err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := s.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

// Shutdown 先断开所有 websocket 连接（被劫持的连接 http.Server 管不到），再关 HTTP。
func (s *Server) Shutdown(ctx context.Context) error {
	s.registry.Shutdown()
	return s.http.Shutdown(ctx)
}

func (s *Server) watchAssets(ctx context.Context) {
	w, err := static.NewWatcher(s.cache, s.log)
	if err != nil {
		s.log.Warn("static watcher disabled", zap.Error(err))
		return
	}
	go w.Run(ctx)
}
