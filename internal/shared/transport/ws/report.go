package ws

import (
	"LocalServer/modules/kit/logx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Report 是一条要落日志的消息；Trace 为 true 时附带调用栈，
// Echo 非空时同一条消息也推给该连接（尽力而为）。
type Report struct {
	Msg   string
	Level zapcore.Level
	Trace bool
	Echo  *Connection
}

func (r *Registry) Report(rep Report, fields ...zap.Field) {
	if rep.Trace {
		fields = append(fields, zap.Stack("stack"))
	}
	l := r.log
	if rep.Echo != nil {
		l = l.WithContext(rep.Echo.Context())
	}
	logx.Log(l, rep.Level, rep.Msg, fields...)
	if rep.Echo != nil && rep.Echo.IsAlive() {
		_ = rep.Echo.Send(rep.Msg)
	}
}
