package static

import (
	"context"
	"path/filepath"

	"LocalServer/modules/kit/logx"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher 监听资源目录的变化。缓存本身不可变，这里只负责提示"磁盘上的文件和内存里的不一致了，需要重启"。
type Watcher struct {
	cache *Cache
	fw    *fsnotify.Watcher
	log   logx.Logger
}

func NewWatcher(c *Cache, l logx.Logger) (*Watcher, error) {
	if l == nil {
		l = logx.Nop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(c.Dir()); err != nil {
		_ = fw.Close()
		return nil, ErrAssetDirUnreadable.WithData("dir", c.Dir()).WithCause(err)
	}
	return &Watcher{cache: c, fw: fw, log: l}, nil
}

// Run 阻塞直到 ctx 结束或底层 watcher 被关闭。
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.fw.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.onEvent(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("static watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) onEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
		return
	}
	name := filepath.Base(ev.Name)
	_, cached := w.cache.Get(name)
	w.log.Warn("static asset changed on disk, restart to reload",
		zap.String("file", name),
		zap.String("op", ev.Op.String()),
		zap.Bool("cached", cached),
	)
}
