package ws

import (
	"sync"
	"time"

	"LocalServer/internal/shared/utils"
	"LocalServer/modules/kit/errx"
	"LocalServer/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// Registry 维护所有存活连接，并持有 actor system：每条连接一个 livenessActor。
type Registry struct {
	sync.RWMutex
	conns    map[int64]*Connection
	closed   bool
	handler  Handler
	interval time.Duration

	system *actor.ActorSystem
	root   *actor.RootContext
	log    logx.Logger
}

func NewRegistry(h Handler, interval time.Duration, l logx.Logger) *Registry {
	if l == nil {
		l = logx.Nop()
	}
	if h == nil {
		h = func(Message, *Connection) {}
	}
	system := actor.NewActorSystem()
	return &Registry{
		conns:    make(map[int64]*Connection),
		handler:  h,
		interval: interval,
		system:   system,
		root:     system.Root,
		log:      l,
	}
}

// Accept 接管一个刚升级好的 transport：进入 alive、拉起 liveness actor、启动读协程。
// 不阻塞调用方。
func (r *Registry) Accept(t Transport) (*Connection, error) {
	r.RLock()
	closed := r.closed
	r.RUnlock()
	if closed {
		_ = t.Close()
		return nil, ErrRegistryClosed
	}

	id, err := utils.NextSnowflakeID()
	if err != nil {
		_ = t.Close()
		return nil, errx.ErrInternal.WithCause(err)
	}

	c := newConnection(id, t, r)
	t.SetPongHandler(func(string) error {
		if pid := c.liveness.Load(); pid != nil && c.IsAlive() {
			r.root.Send(pid, pongReceived{})
		}
		return nil
	})
	c.open()

	c.inbound.Store(r.root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return &inboundActor{conn: c}
	})))
	c.liveness.Store(r.root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return newLivenessActor(c, r.interval)
	})))
	// 心跳可能在 Store 之前就把连接终止了，那时 terminate 看不到 PID，这里补一次
	if !c.IsAlive() {
		c.stopActors()
	}

	if !r.add(c) {
		c.terminate(errShutdown)
		return nil, ErrRegistryClosed
	}
	go r.watchConnDone(c)
	go c.readLoop()

	c.log.Info("ws connection accepted", zap.String("addr", c.Addr()))
	return c, nil
}

// add 与 Shutdown 在同一把锁下判断 closed，关闭之后不会再漏进新连接。
func (r *Registry) add(c *Connection) bool {
	r.Lock()
	defer r.Unlock()
	if r.closed {
		return false
	}
	r.conns[c.id] = c
	return true
}

// watchConnDone 连接终止后自动摘除，避免 conns 逐步膨胀。
func (r *Registry) watchConnDone(c *Connection) {
	<-c.Done()
	r.Lock()
	defer r.Unlock()
	if r.conns[c.id] == c {
		delete(r.conns, c.id)
	}
}

func (r *Registry) Get(id int64) (*Connection, bool) {
	r.RLock()
	defer r.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

func (r *Registry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.conns)
}

func (r *Registry) snapshot() []*Connection {
	r.RLock()
	defer r.RUnlock()
	out := make([]*Connection, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}

// Send 等价于 conn.Send，conn 为空时返回 ErrNotReady。
func (r *Registry) Send(conn *Connection, payload any) error {
	if conn == nil {
		r.log.Warn("ws send rejected, connection is nil")
		return ErrNotReady
	}
	return conn.Send(payload)
}

// Broadcast 向所有存活连接发送，返回成功条数。
func (r *Registry) Broadcast(payload any) int {
	n := 0
	for _, c := range r.snapshot() {
		if err := c.Send(payload); err == nil {
			n++
		}
	}
	return n
}

// Shutdown 终止全部连接并关闭 actor system，之后 Accept 一律拒绝。
func (r *Registry) Shutdown() {
	r.Lock()
	if r.closed {
		r.Unlock()
		return
	}
	r.closed = true
	r.Unlock()

	for _, c := range r.snapshot() {
		c.terminate(errShutdown)
	}
	r.system.Shutdown()
}
