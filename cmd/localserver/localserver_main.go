package main

import (
	"context"
	"os/signal"
	"syscall"

	"LocalServer/internal/server"
	"LocalServer/internal/shared/logs"
	"LocalServer/internal/shared/serverconfig"
	"LocalServer/internal/shared/transport"
	"LocalServer/internal/shared/transport/ws"
	"LocalServer/modules/kit/logx"

	"go.uber.org/zap"
)

func main() {
	conf, err := serverconfig.Load("", nil)
	if err != nil {
		panic(err)
	}
	if err := logs.Init(conf.Server.Name, conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", conf))

	baseLogger := logx.NewZapLogger(logs.Logger())

	var srv *server.Server
	router := ws.NewRouter(baseLogger)
	registerDemo(router, func() int { return srv.Registry().Len() })
	router.Fallback(func(msg ws.Message, conn *ws.Connection) {
		_ = conn.Send(msg.Raw)
	})

	srv, err = server.New(conf.Server, router.Handle, baseLogger)
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(context.Background(), baseLogger, logx.NewSysLog("server init", err))
		logs.Fatal("server init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, baseLogger, logx.NewSysLog("server run", err))
		logs.Error("服务异常退出", zap.Error(err))
		return
	}
	logs.Info("服务已退出")
}

// registerDemo 注册一组演示路由：demo.echo 原样返回 msg，demo.online 返回当前连接数。
func registerDemo(r *ws.Router, online func() int) {
	g := r.Group("demo")
	g.Handle("echo", func(ctx context.Context, req *ws.Request, resp *ws.Response) {
		resp.Body.Code = transport.OK
		resp.Body.Msg = req.Body.Msg
	})
	g.Handle("online", func(ctx context.Context, req *ws.Request, resp *ws.Response) {
		resp.Body.Code = transport.OK
		resp.Body.Msg = map[string]int{"count": online()}
	})
}
