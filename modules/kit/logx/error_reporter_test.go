package logx

import (
	"context"
	"errors"
	"testing"

	"LocalServer/modules/kit/errx"
	"LocalServer/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("permission denied")
	e := errx.ErrStartup.
		WithData("dir", "./static/").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Code != string(errx.CodeStartup) {
		t.Fatalf("期望 meta.Code=%s, got=%q", errx.CodeStartup, meta.Code)
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data["dir"] != "./static/" {
		t.Fatalf("期望 meta.Data 包含 dir, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 origin/stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportSysError_带trace与conn字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithTraceID(context.Background(), "t-1")
	ctx = tracex.WithConnID(ctx, 7)
	ReportSysErrorWithLoggerContext(ctx, l, NewSysLog("ws read", errx.ErrUnavailable.WithCause(errors.New("reset"))))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志, got=%d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "t-1" || fields["conn_id"] != int64(7) || fields["err_type"] != "sys" {
		t.Fatalf("日志字段不符合预期: %v", fields)
	}
}

func TestLog_按级别分发(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	Log(l, zapcore.WarnLevel, "w")
	Log(l, zapcore.FatalLevel, "f")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望 2 条日志, got=%d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel || entries[1].Level != zapcore.ErrorLevel {
		t.Fatalf("级别不符合预期: %v %v", entries[0].Level, entries[1].Level)
	}
}
