package logx

import (
	"context"

	"LocalServer/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger 是 zap 的适配器，实现 logx.Logger。
type ZapLogger struct {
	logger *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		return &ZapLogger{logger: zap.NewNop()}
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	if z == nil {
		return NewZapLogger(nil)
	}
	if ctx == nil {
		return z
	}
	l := z.logger
	if tid, ok := tracex.TraceIDFrom(ctx); ok {
		l = l.With(zap.String("trace_id", tid))
	}
	if sid, ok := tracex.SpanIDFrom(ctx); ok {
		l = l.With(zap.String("span_id", sid))
	}
	if cid, ok := tracex.ConnIDFrom(ctx); ok {
		l = l.With(zap.Int64("conn_id", cid))
	}
	return &ZapLogger{logger: l}
}

func (z *ZapLogger) Info(msg string, fields ...zap.Field) {
	z.logger.Info(msg, fields...)
}

func (z *ZapLogger) Error(msg string, fields ...zap.Field) {
	z.logger.Error(msg, fields...)
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) {
	z.logger.Debug(msg, fields...)
}

func (z *ZapLogger) Warn(msg string, fields ...zap.Field) {
	z.logger.Warn(msg, fields...)
}

// Log 按 zap 级别分发到 Logger 的对应方法；DPanic 及以上一律按 Error 记录，
// 连接层的问题不允许拖垮进程。
func Log(l Logger, level zapcore.Level, msg string, fields ...zap.Field) {
	if l == nil {
		return
	}
	switch {
	case level <= zapcore.DebugLevel:
		l.Debug(msg, fields...)
	case level == zapcore.InfoLevel:
		l.Info(msg, fields...)
	case level == zapcore.WarnLevel:
		l.Warn(msg, fields...)
	default:
		l.Error(msg, fields...)
	}
}
