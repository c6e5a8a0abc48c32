package static

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"LocalServer/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestEngine(t *testing.T, files map[string]string) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, err := LoadCache(writeAssets(t, files))
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewHandler(c, logx.NewZapLogger(zap.New(core)))

	engine := gin.New()
	engine.NoRoute(h.Serve)
	return engine, logs
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_命中返回缓存内容(t *testing.T) {
	engine, _ := newTestEngine(t, map[string]string{"app.js": "let a = 1", "logo.png": "\x89PNG"})

	w := get(engine, "/app.js")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/javascript" {
		t.Fatalf("Content-Type=%q", ct)
	}
	if w.Body.String() != "let a = 1" {
		t.Fatalf("body=%q", w.Body.String())
	}

	w = get(engine, "/img/deep/logo.png")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" || w.Body.String() != "\x89PNG" {
		t.Fatalf("只看最后一段路径: status=%d ct=%q", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestHandler_首页路径归一(t *testing.T) {
	engine, _ := newTestEngine(t, map[string]string{"index.html": "<p>home</p>"})

	for _, p := range []string{"/", "/index.html", "/index.htm", "/docs/"} {
		w := get(engine, p)
		if w.Code != http.StatusOK || w.Body.String() != "<p>home</p>" {
			t.Errorf("%s: status=%d body=%q", p, w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/html" {
			t.Errorf("%s: Content-Type=%q", p, ct)
		}
	}
}

func TestHandler_未命中404并记WARN(t *testing.T) {
	engine, logs := newTestEngine(t, map[string]string{"index.html": "x"})

	w := get(engine, "/missing.css?v=2")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if w.Body.String() != "404 Not Found" {
		t.Fatalf("body=%q", w.Body.String())
	}

	entries := logs.FilterMessage("static asset not found").All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条 WARN, got=%d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Fatalf("level=%v", e.Level)
	}
	fields := e.ContextMap()
	if fields["file"] != "missing.css" || fields["url"] != "/missing.css?v=2" {
		t.Fatalf("字段不符: %v", fields)
	}
}

func TestHandler_没有首页时根路径404(t *testing.T) {
	engine, _ := newTestEngine(t, map[string]string{"app.js": "x"})
	if w := get(engine, "/"); w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestTargetName(t *testing.T) {
	cases := map[string]string{
		"":              "index.html",
		"/":             "index.html",
		"/a/b/":         "index.html",
		"/index.htm":    "index.html",
		"/x/index.html": "index.html",
		"/a/b/c.txt":    "c.txt",
		"/favicon.ico":  "favicon.ico",
	}
	for in, want := range cases {
		if got := TargetName(in); got != want {
			t.Errorf("TargetName(%q)=%q want=%q", in, got, want)
		}
	}
}
