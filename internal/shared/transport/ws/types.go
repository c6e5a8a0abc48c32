package ws

import (
	"net"
	"time"

	"LocalServer/modules/kit/errx"
)

// Transport 是连接独占的底层双工通道，*websocket.Conn 直接满足。
type Transport interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	RemoteAddr() net.Addr
	Close() error
}

// Handler 是嵌入方提供的入站消息处理函数，同一连接的消息按到达顺序依次调用。
type Handler func(msg Message, conn *Connection)

const writeWait = 10 * time.Second

var (
	ErrNotReady       = errx.NewBiz("CONN_NOT_READY", "连接未就绪")
	ErrRegistryClosed = errx.NewBiz("REGISTRY_CLOSED", "连接表已关闭")
	ErrEncode         = errx.NewBiz("PAYLOAD_ENCODE_FAILED", "消息序列化失败")

	errMissedHeartbeat = errx.NewBiz("HEARTBEAT_MISSED", "心跳超时")
	errShutdown        = errx.NewBiz("SERVER_SHUTDOWN", "服务关闭")
)

// 路由信封：{"seq":1,"name":"group.handler","msg":{...}}
type ReqBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Msg  any    `json:"msg"`
}

type RespBody struct {
	Seq  int64  `json:"seq"`
	Name string `json:"name"`
	Code int    `json:"code"`
	Msg  any    `json:"msg"`
}

type Request struct {
	Body *ReqBody
	Conn *Connection
}

type Response struct {
	Body *RespBody
}

// Heartbeat 是应用层心跳（区别于 ws ping/pong），客户端带 ctime，服务端回填 stime。
type Heartbeat struct {
	CTime int64 `json:"ctime"`
	STime int64 `json:"stime"`
}

const HeartbeatMsg = "heartbeat"
