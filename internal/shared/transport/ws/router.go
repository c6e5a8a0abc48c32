package ws

import (
	"LocalServer/internal/shared/transport"
	"LocalServer/modules/kit/logx"
	"context"
	"strings"
	"time"
)

type Group struct {
	prefix   string
	handlers map[string]HandlerFunc
}

type HandlerFunc func(ctx context.Context, req *Request, resp *Response)

func (g *Group) Handle(name string, h HandlerFunc) {
	g.handlers[name] = h
}

// Router 是 Handler 的一种实现：结构化消息按信封里的 name（group.handler）路由，
// 处理结果回写给发送方；文本消息或非信封消息交给 fallback。
type Router struct {
	groups   map[string]*Group
	fallback Handler
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{
		groups: make(map[string]*Group),
		log:    l,
	}
}

func (r *Router) Group(prefix string) *Group {
	group := r.groups[prefix]
	if group == nil {
		group = &Group{
			prefix:   prefix,
			handlers: make(map[string]HandlerFunc),
		}
		r.groups[prefix] = group
	}
	return group
}

// Fallback 设置非信封消息的处理函数。
func (r *Router) Fallback(h Handler) {
	r.fallback = h
}

// Handle 满足 Handler 签名，可直接交给 Registry。
func (r *Router) Handle(msg Message, conn *Connection) {
	body, ok := r.envelope(msg)
	if !ok {
		if r.fallback != nil {
			r.fallback(msg, conn)
		}
		return
	}

	req := &Request{Body: body, Conn: conn}
	resp := &Response{Body: &RespBody{Seq: body.Seq, Name: body.Name}}
	if body.Name == HeartbeatMsg {
		h := &Heartbeat{}
		_ = Decode(body.Msg, h)
		h.STime = time.Now().UnixMilli()
		resp.Body.Code = transport.OK
		resp.Body.Msg = h
	} else {
		r.Dispatch(req, resp)
	}

	if conn != nil {
		_ = conn.Send(resp.Body)
	}
}

func (r *Router) envelope(msg Message) (*ReqBody, bool) {
	if !msg.IsStructured() {
		return nil, false
	}
	if _, isObject := msg.Value.(map[string]any); !isObject {
		return nil, false
	}
	body := &ReqBody{}
	if err := Decode(msg, body); err != nil || body.Name == "" {
		return nil, false
	}
	return body, true
}

// req.Body.Name(路径)：例如 chat(组标识).say(路由标识)
func (r *Router) Dispatch(req *Request, resp *Response) {
	ctx := r.prepareDispatchContext(req, resp)
	defer r.writeAccessLog(ctx, resp)

	if !r.validateDispatchInput(req, resp) {
		return
	}

	handlerFunc := r.findHandler(req.Body.Name, resp)
	if handlerFunc == nil {
		return
	}

	handlerFunc(ctx, req, resp)
}

func (r *Router) prepareDispatchContext(req *Request, resp *Response) context.Context {
	action := "WS unknown"
	if req != nil && req.Body != nil {
		action = "WS " + req.Body.Name
	}
	parent := context.Background()
	if req != nil && req.Conn != nil {
		parent = req.Conn.Context()
	}
	ctx := transport.Begin(parent, transport.ProtoWS, action)
	if req != nil && req.Conn != nil {
		transport.SetPeer(ctx, req.Conn.Addr())
	}

	if resp != nil && resp.Body != nil {
		// 先置系统错误，避免 handler 漏设时出现“成功假象”。
		resp.Body.Code = transport.SystemError
		resp.Body.Msg = nil
	}
	return ctx
}

func (r *Router) validateDispatchInput(req *Request, resp *Response) bool {
	if req != nil && req.Body != nil && resp != nil && resp.Body != nil {
		return true
	}
	r.setErrorResponse(resp, transport.InvalidParam, "参数有误")
	return false
}

func (r *Router) findHandler(route string, resp *Response) HandlerFunc {
	prefix, handler, ok := parseRouteName(route)
	if !ok {
		r.setErrorResponse(resp, transport.InvalidParam, "路由参数有误")
		return nil
	}

	group := r.groups[prefix]
	if group == nil {
		r.setErrorResponse(resp, transport.NotFound, "路由组不存在")
		return nil
	}

	handlerFunc := group.handlers[handler]
	if handlerFunc == nil {
		r.setErrorResponse(resp, transport.NotFound, "路由处理器不存在")
		return nil
	}
	return handlerFunc
}

func parseRouteName(name string) (string, string, bool) {
	prefix, handler, ok := strings.Cut(name, ".")
	if !ok || prefix == "" || handler == "" || strings.Contains(handler, ".") {
		return "", "", false
	}
	return prefix, handler, true
}

func (r *Router) setErrorResponse(resp *Response, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	resp.Body.Msg = msg
}

func (r *Router) writeAccessLog(ctx context.Context, resp *Response) {
	bizCode := transport.SystemError
	if resp != nil && resp.Body != nil {
		bizCode = resp.Body.Code
	}
	transport.SetBizCode(ctx, transport.BizCode(bizCode))
	transport.Finish(ctx, r.log)
}
