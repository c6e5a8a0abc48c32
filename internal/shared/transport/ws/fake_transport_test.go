package ws

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type readResult struct {
	data []byte
	err  error
}

// fakeTransport 模拟对端：inbound 里塞入站消息，autoPong 控制是否自动回 pong。
type fakeTransport struct {
	mu         sync.Mutex
	inbound    chan readResult
	closed     chan struct{}
	closeOnce  sync.Once
	closeCalls int
	closedAt   time.Time
	written    [][]byte
	pings      []time.Time
	pong       func(string) error

	autoPong bool
	pingErr  error
	writeErr error
}

func newFakeTransport(autoPong bool) *fakeTransport {
	return &fakeTransport{
		inbound:  make(chan readResult, 16),
		closed:   make(chan struct{}),
		autoPong: autoPong,
	}
}

func (f *fakeTransport) ReadMessage() (int, []byte, error) {
	select {
	case r := <-f.inbound:
		if r.err != nil {
			return 0, nil, r.err
		}
		return websocket.TextMessage, r.data, nil
	case <-f.closed:
		return 0, nil, net.ErrClosed
	}
}

func (f *fakeTransport) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) WriteControl(messageType int, _ []byte, _ time.Time) error {
	if messageType != websocket.PingMessage {
		return nil
	}
	f.mu.Lock()
	f.pings = append(f.pings, time.Now())
	err, auto, pong := f.pingErr, f.autoPong, f.pong
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if auto && pong != nil {
		_ = pong("")
	}
	return nil
}

func (f *fakeTransport) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeTransport) SetPongHandler(h func(string) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pong = h
}

func (f *fakeTransport) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	f.closeCalls++
	f.mu.Unlock()
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closedAt = time.Now()
		f.mu.Unlock()
		close(f.closed)
	})
	return nil
}

func (f *fakeTransport) push(data string) {
	f.inbound <- readResult{data: []byte(data)}
}

func (f *fakeTransport) fail(err error) {
	f.inbound <- readResult{err: err}
}

func (f *fakeTransport) pingTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.pings...)
}

func (f *fakeTransport) writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.written))
	for _, w := range f.written {
		out = append(out, string(w))
	}
	return out
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("条件在 %v 内未满足", timeout)
}

func waitClosed(t *testing.T, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("channel 在 %v 内未关闭", timeout)
	}
}
