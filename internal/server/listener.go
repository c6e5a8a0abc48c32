package server

import (
	"crypto/tls"
	"net"

	"LocalServer/internal/shared/serverconfig"
	"LocalServer/modules/kit/errx"
)

// Listener 决定用明文还是 TLS 监听，启动时根据配置选一次。
type Listener interface {
	Listen(addr string) (net.Listener, error)
	Scheme() string
}

type plainListener struct{}

func (plainListener) Listen(addr string) (net.Listener, error) {
	return net.Listen("tcp", addr)
}

func (plainListener) Scheme() string {
	return "ws"
}

type tlsListener struct {
	cfg *tls.Config
}

func (l tlsListener) Listen(addr string) (net.Listener, error) {
	return tls.Listen("tcp", addr, l.cfg)
}

func (tlsListener) Scheme() string {
	return "wss"
}

// newListener 证书在这里就读进来，读不了直接算启动失败，不拖到第一次握手。
func newListener(c serverconfig.ServerConfig) (Listener, error) {
	if !c.Secure {
		return plainListener{}, nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, errx.ErrStartup.
			WithData("cert_file", c.CertFile).
			WithData("key_file", c.KeyFile).
			WithCause(err)
	}
	return tlsListener{cfg: &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}}, nil
}
