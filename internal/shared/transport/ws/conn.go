package ws

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"LocalServer/modules/kit/errx"
	"LocalServer/modules/kit/logx"
	"LocalServer/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type state int32

const (
	stateConnecting state = iota
	stateAlive
	stateTerminated
)

func (s state) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateAlive:
		return "alive"
	default:
		return "terminated"
	}
}

// Connection 是一条升级后的 websocket 连接。transport、心跳定时器都归它独占，
// 终止时一起释放；状态只会向前走（connecting -> alive -> terminated）。
type Connection struct {
	id        int64
	transport Transport
	registry  *Registry
	hb        *heartbeat

	// Accept 写入，终止路径和 pong 回调读，跨 goroutine 所以用原子指针
	liveness atomic.Pointer[actor.PID]
	inbound  atomic.Pointer[actor.PID]

	state   atomic.Int32
	writeMu sync.Mutex
	done    chan struct{}

	property map[string]any
	propMu   sync.RWMutex

	ctx context.Context
	log logx.Logger
}

func newConnection(id int64, t Transport, r *Registry) *Connection {
	ctx := tracex.WithConnID(context.Background(), id)
	if traceID := tracex.NewTraceID(); traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	return &Connection{
		id:        id,
		transport: t,
		registry:  r,
		hb:        newHeartbeat(),
		done:      make(chan struct{}),
		property:  make(map[string]any),
		ctx:       ctx,
		log:       r.log.WithContext(ctx),
	}
}

func (c *Connection) ID() int64 {
	return c.id
}

func (c *Connection) Addr() string {
	if addr := c.transport.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

// Context 带 trace_id 与 conn_id，handler 打日志时可以透传。
func (c *Connection) Context() context.Context {
	return c.ctx
}

func (c *Connection) IsAlive() bool {
	return c.loadState() == stateAlive
}

// Done 在连接终止时关闭。
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) SetProperty(key string, value any) {
	c.propMu.Lock()
	defer c.propMu.Unlock()
	c.property[key] = value
}

func (c *Connection) GetProperty(key string) any {
	c.propMu.RLock()
	defer c.propMu.RUnlock()
	return c.property[key]
}

func (c *Connection) RemoveProperty(key string) {
	c.propMu.Lock()
	defer c.propMu.Unlock()
	delete(c.property, key)
}

// Send 向对端发送一条消息。连接不是 alive 时返回 ErrNotReady，不排队不重试；
// 写失败时终止连接并返回错误。
func (c *Connection) Send(payload any) error {
	if !c.IsAlive() {
		c.log.Warn("ws send rejected, connection not ready", zap.String("state", c.loadState().String()))
		return ErrNotReady.WithData("conn_id", c.id)
	}

	data, err := encodePayload(payload)
	if err != nil {
		err = ErrEncode.WithCause(err)
		logx.ReportSysErrorWithLoggerContext(c.ctx, c.registry.log, logx.NewSysLog("ws send encode", err))
		return err
	}

	c.writeMu.Lock()
	_ = c.transport.SetWriteDeadline(time.Now().Add(writeWait))
	err = c.transport.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		err = errx.ErrUnavailable.WithData("conn_id", c.id).WithCause(err)
		c.terminate(err)
		return err
	}
	return nil
}

// Close 主动终止连接，可重复调用。
func (c *Connection) Close() {
	c.terminate(nil)
}

func (c *Connection) loadState() state {
	return state(c.state.Load())
}

func (c *Connection) open() bool {
	return c.state.CompareAndSwap(int32(stateConnecting), int32(stateAlive))
}

// terminate 只有第一次调用生效：停定时器、关 transport、停 actor、关 done。
func (c *Connection) terminate(reason error) {
	for {
		cur := c.state.Load()
		if state(cur) == stateTerminated {
			return
		}
		if c.state.CompareAndSwap(cur, int32(stateTerminated)) {
			break
		}
	}

	c.hb.cancel()
	_ = c.transport.Close()
	c.stopActors()
	c.reportClose(reason)
	close(c.done)
}

// stopActors 可以重复调用，对已停止的 PID 再发 Stop 只会进 dead letter。
func (c *Connection) stopActors() {
	if pid := c.liveness.Load(); pid != nil {
		c.registry.root.Stop(pid)
	}
	if pid := c.inbound.Load(); pid != nil {
		c.registry.root.Stop(pid)
	}
}

func (c *Connection) reportClose(reason error) {
	switch {
	case errors.Is(reason, errMissedHeartbeat):
		c.log.Warn("ws connection missed heartbeat, terminated", zap.String("addr", c.Addr()))
	case isClosedError(reason):
		c.log.Info("ws connection closed", zap.String("addr", c.Addr()))
	default:
		logx.ReportSysErrorWithLoggerContext(c.ctx, c.registry.log, logx.NewSysLog("ws connection terminated", reason),
			zap.String("addr", c.Addr()))
	}
}

func (c *Connection) ping() error {
	return c.transport.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// readLoop 只负责收包并投递给 inboundActor，handler 再慢也不会挡住 pong 的读取。
func (c *Connection) readLoop() {
	for {
		_, data, err := c.transport.ReadMessage()
		if err != nil {
			c.terminate(err)
			return
		}
		if !c.IsAlive() {
			return
		}
		if pid := c.inbound.Load(); pid != nil {
			c.registry.root.Send(pid, ParseMessage(data))
		}
	}
}

// dispatch 里 handler 的 panic 只记日志，连接继续存活。
func (c *Connection) dispatch(msg Message) {
	defer func() {
		if p := recover(); p != nil {
			c.registry.Report(Report{
				Msg:   "ws handler panic",
				Level: zap.ErrorLevel,
				Trace: true,
			}, zap.Int64("conn_id", c.id), zap.Any("panic", p), zap.String("kind", msg.Kind.String()))
		}
	}()
	c.registry.handler(msg, c)
}

// isClosedError 判断是不是“通道已关闭”类的预期错误，这类错误不上报。
func isClosedError(err error) bool {
	if err == nil || errors.Is(err, errShutdown) {
		return true
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return true
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		return true
	}
	return strings.Contains(err.Error(), "closed")
}
