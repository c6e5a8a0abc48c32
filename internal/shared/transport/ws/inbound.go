package ws

import "github.com/asynkron/protoactor-go/actor"

// inboundActor 每条连接一个，按到达顺序逐条调用 handler。
// handler 跑在这里而不是读协程里，读协程才能一直读到 pong。
type inboundActor struct {
	conn *Connection
}

func (a *inboundActor) Receive(ctx actor.Context) {
	msg, ok := ctx.Message().(Message)
	if !ok || !a.conn.IsAlive() {
		return
	}
	a.conn.dispatch(msg)
}
