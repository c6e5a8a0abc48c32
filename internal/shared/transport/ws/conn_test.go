package ws

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"LocalServer/modules/kit/logx"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConnection_入站消息按类型分发(t *testing.T) {
	got := make(chan Message, 2)
	r := NewRegistry(func(msg Message, conn *Connection) {
		if conn == nil {
			t.Errorf("handler 应拿到连接")
		}
		got <- msg
	}, time.Hour, nil)
	defer r.Shutdown()

	f := newFakeTransport(true)
	acceptFake(t, r, f)
	f.push(`{"a":1}`)
	f.push(`hello`)

	first := <-got
	if first.Kind != Structured || !reflect.DeepEqual(first.Value, map[string]any{"a": float64(1)}) {
		t.Fatalf("期望结构化 {a:1}, got=%+v", first)
	}
	second := <-got
	if second.Kind != Text || second.Raw != "hello" {
		t.Fatalf("期望文本 hello, got=%+v", second)
	}
}

func TestConnection_handler_panic不终止连接(t *testing.T) {
	got := make(chan string, 2)
	r := NewRegistry(func(msg Message, conn *Connection) {
		if msg.Raw == "boom" {
			panic("handler exploded")
		}
		got <- msg.Raw
	}, time.Hour, nil)
	defer r.Shutdown()

	f := newFakeTransport(true)
	c := acceptFake(t, r, f)
	f.push("boom")
	f.push("after")

	select {
	case raw := <-got:
		if raw != "after" {
			t.Fatalf("期望收到 after, got=%q", raw)
		}
	case <-time.After(time.Second):
		t.Fatalf("panic 之后的消息没有分发")
	}
	if !c.IsAlive() {
		t.Fatalf("handler panic 不应终止连接")
	}
}

func TestConnection_Send文本原样发送其它序列化(t *testing.T) {
	r := NewRegistry(nil, time.Hour, nil)
	defer r.Shutdown()

	f := newFakeTransport(true)
	c := acceptFake(t, r, f)

	if err := c.Send("plain"); err != nil {
		t.Fatalf("Send err=%v", err)
	}
	if err := r.Send(c, map[string]any{"b": 2}); err != nil {
		t.Fatalf("Send err=%v", err)
	}
	want := []string{"plain", `{"b":2}`}
	if got := f.writes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("期望 %v, got=%v", want, got)
	}
}

func TestConnection_未就绪或已终止时Send返回ErrNotReady(t *testing.T) {
	r := NewRegistry(nil, time.Hour, nil)
	defer r.Shutdown()

	pending := newConnection(1, newFakeTransport(false), r)
	if err := pending.Send("x"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("未打开的连接期望 ErrNotReady, got=%v", err)
	}

	f := newFakeTransport(true)
	c := acceptFake(t, r, f)
	c.Close()
	if err := c.Send("x"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("已终止的连接期望 ErrNotReady, got=%v", err)
	}
	if err := r.Send(nil, "x"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("nil 连接期望 ErrNotReady, got=%v", err)
	}
	if len(f.writes()) != 0 {
		t.Fatalf("被拒绝的 Send 不应写出数据")
	}
}

func TestConnection_序列化失败只返回错误(t *testing.T) {
	r := NewRegistry(nil, time.Hour, nil)
	defer r.Shutdown()

	c := acceptFake(t, r, newFakeTransport(true))
	if err := c.Send(make(chan int)); !errors.Is(err, ErrEncode) {
		t.Fatalf("期望 ErrEncode, got=%v", err)
	}
	if !c.IsAlive() {
		t.Fatalf("序列化失败不应终止连接")
	}
}

func TestConnection_写失败终止连接(t *testing.T) {
	r := NewRegistry(nil, time.Hour, nil)
	defer r.Shutdown()

	f := newFakeTransport(true)
	f.writeErr = errors.New("write: connection reset by peer")
	c := acceptFake(t, r, f)

	if err := c.Send("x"); err == nil {
		t.Fatalf("期望写失败返回错误")
	}
	waitClosed(t, c.Done(), time.Second)
}

func TestConnection_终止幂等(t *testing.T) {
	r := NewRegistry(nil, time.Hour, nil)
	defer r.Shutdown()

	f := newFakeTransport(true)
	c := acceptFake(t, r, f)

	c.Close()
	c.Close()
	c.terminate(errors.New("again"))

	waitClosed(t, c.Done(), time.Second)
	f.mu.Lock()
	calls := f.closeCalls
	f.mu.Unlock()
	if calls != 1 {
		t.Fatalf("期望 transport 只关闭一次, got=%d", calls)
	}
	if c.hb.running() {
		t.Fatalf("终止后心跳定时器不应运行")
	}
	waitClosed(t, c.hb.Exited(), time.Second)
}

func TestConnection_已关闭类错误不上报(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry(nil, time.Hour, logx.NewZapLogger(zap.New(core)))
	defer r.Shutdown()

	f := newFakeTransport(true)
	c := acceptFake(t, r, f)
	f.Close()
	waitClosed(t, c.Done(), time.Second)

	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 0 {
		t.Fatalf("已关闭类错误不应以 ERROR 上报, got=%d", n)
	}
}

func TestConnection_其它传输错误上报后终止(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry(nil, time.Hour, logx.NewZapLogger(zap.New(core)))
	defer r.Shutdown()

	f := newFakeTransport(true)
	c := acceptFake(t, r, f)
	f.fail(errors.New("read: connection reset by peer"))
	waitClosed(t, c.Done(), time.Second)

	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 1 {
		t.Fatalf("期望 1 条 ERROR 上报, got=%d", n)
	}
}

func TestIsClosedError(t *testing.T) {
	if !isClosedError(nil) || !isClosedError(errors.New("use of closed network connection")) {
		t.Fatalf("nil 与 closed 类错误应视为预期关闭")
	}
	if isClosedError(errors.New("connection reset by peer")) {
		t.Fatalf("reset 不应视为预期关闭")
	}
	if isClosedError(errMissedHeartbeat) {
		t.Fatalf("心跳超时不应视为预期关闭")
	}
}

func TestConnection_Property(t *testing.T) {
	r := NewRegistry(nil, time.Hour, nil)
	defer r.Shutdown()

	c := acceptFake(t, r, newFakeTransport(true))
	c.SetProperty("nick", "ann")
	if c.GetProperty("nick") != "ann" {
		t.Fatalf("期望 nick=ann")
	}
	c.RemoveProperty("nick")
	if c.GetProperty("nick") != nil {
		t.Fatalf("期望 nick 已删除")
	}
	if c.Addr() != "127.0.0.1:40000" {
		t.Fatalf("Addr 不符合预期: %s", c.Addr())
	}
}
