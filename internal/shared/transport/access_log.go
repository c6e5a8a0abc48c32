package transport

import (
	"context"
	"time"

	"LocalServer/modules/kit/logx"
	"LocalServer/modules/kit/tracex"

	"go.uber.org/zap"
)

// Proto 区分访问日志来自哪一侧：静态资源的 HTTP 请求，还是 websocket 消息分发。
type Proto string

const (
	ProtoHTTP Proto = "http"
	ProtoWS   Proto = "ws"
)

// AccessLog 一次请求/一次消息分发对应一条，handler 往里填结果，结束时统一输出。
type AccessLog struct {
	Proto       Proto
	Action      string
	Peer        string
	Status      int // 只有 HTTP 有
	BizCode     BizCode
	ErrorReason string

	start time.Time
}

type accessLogKey struct{}

// Begin 在 parent 上挂一条新的 AccessLog，span 取协议名。
// 默认业务码是 SystemError，handler 忘了设置时不会被记成成功。
func Begin(parent context.Context, proto Proto, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := parent
	if _, ok := tracex.TraceIDFrom(ctx); !ok {
		if traceID := tracex.NewTraceID(); traceID != "" {
			ctx = tracex.WithTraceID(ctx, traceID)
		}
	}
	ctx = tracex.WithSpanID(ctx, string(proto))
	return context.WithValue(ctx, accessLogKey{}, &AccessLog{
		Proto:   proto,
		Action:  action,
		BizCode: BizCode(SystemError),
		start:   time.Now(),
	})
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// SetStatus 记录 HTTP 状态码，业务码随之折算。
func SetStatus(ctx context.Context, status int) {
	if al := FromContext(ctx); al != nil {
		al.Status = status
		al.BizCode = FromHTTPStatus(status)
	}
}

// SetPeer 记录对端：HTTP 是客户端 IP，ws 是连接地址。
func SetPeer(ctx context.Context, peer string) {
	if al := FromContext(ctx); al != nil {
		al.Peer = peer
	}
}

// SetErrorReason 失败原因，例如 404 的文件名。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

func (al *AccessLog) fields() []zap.Field {
	fields := []zap.Field{
		zap.String("proto", string(al.Proto)),
		zap.Duration("latency", time.Since(al.start)),
	}
	if al.Peer != "" {
		fields = append(fields, zap.String("peer", al.Peer))
	}
	if al.Status != 0 {
		fields = append(fields, zap.Int("status", al.Status))
	}
	if al.BizCode == BizCode(OK) {
		return append(fields, zap.String("result", "success"))
	}
	fields = append(fields, zap.String("result", "failure"))
	if al.ErrorReason != "" {
		fields = append(fields, zap.String("error_reason", al.ErrorReason))
	}
	return fields
}

// Finish 输出访问日志，级别由业务码决定；ctx 上没有 AccessLog 时什么也不做。
func Finish(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.Action, int(al.BizCode), al.fields()...)
}
