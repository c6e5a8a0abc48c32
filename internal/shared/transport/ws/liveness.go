package ws

import (
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"
)

type heartbeatTick struct{}

func (heartbeatTick) NotInfluenceReceiveTimeout() {}

type pongReceived struct{}

func (pongReceived) NotInfluenceReceiveTimeout() {}

// livenessActor 每条连接一个。alive 只在 Receive 里读写，不需要加锁：
// tick 时 alive 为 false 说明上一轮 ping 没等到 pong，直接终止连接。
type livenessActor struct {
	conn     *Connection
	interval time.Duration
	alive    bool
}

func newLivenessActor(c *Connection, interval time.Duration) *livenessActor {
	return &livenessActor{conn: c, interval: interval}
}

func (a *livenessActor) Receive(ctx actor.Context) {
	switch ctx.Message().(type) {
	case *actor.Started:
		a.alive = true
		self := ctx.Self()
		root := ctx.ActorSystem().Root
		a.conn.hb.arm(a.interval, func() {
			root.Send(self, heartbeatTick{})
		})
	case heartbeatTick:
		if !a.conn.IsAlive() {
			return
		}
		if !a.alive {
			a.conn.terminate(errMissedHeartbeat)
			return
		}
		a.alive = false
		if err := a.conn.ping(); err != nil {
			a.conn.terminate(err)
		}
	case pongReceived:
		if a.conn.IsAlive() {
			a.alive = true
		}
	case *actor.Stopping:
		a.conn.hb.cancel()
	}
}

// heartbeat 是连接独占的重复定时器。arm 只生效一次；cancel 之后再 arm 不会启动。
type heartbeat struct {
	mu      sync.Mutex
	stop    chan struct{}
	exited  chan struct{}
	armed   bool
	stopped bool
}

func newHeartbeat() *heartbeat {
	return &heartbeat{
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

func (h *heartbeat) arm(every time.Duration, tick func()) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.armed || h.stopped || every <= 0 {
		return false
	}
	h.armed = true

	go func(stop <-chan struct{}, exited chan<- struct{}) {
		defer close(exited)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tick()
			case <-stop:
				return
			}
		}
	}(h.stop, h.exited)
	return true
}

func (h *heartbeat) cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	close(h.stop)
	if !h.armed {
		close(h.exited)
	}
}

func (h *heartbeat) running() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.armed && !h.stopped
}

// Exited 在定时器协程退出后关闭（从未启动过的定时器在 cancel 时关闭）。
func (h *heartbeat) Exited() <-chan struct{} {
	return h.exited
}
