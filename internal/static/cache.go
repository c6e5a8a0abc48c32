package static

import (
	"os"
	"path/filepath"
	"sort"

	"LocalServer/modules/kit/errx"
)

var (
	ErrAssetDirUnreadable = errx.NewSys("ASSET_DIR_UNREADABLE", "静态资源目录无法读取")
	ErrAssetUnreadable    = errx.NewSys("ASSET_UNREADABLE", "静态资源文件无法读取")
)

// Cache 启动时把一个目录（不递归）下的文件整体读进内存，之后只读，可以无锁并发访问。
type Cache struct {
	dir     string
	entries map[string][]byte
}

// LoadCache 任一文件读取失败都直接返回错误，不做部分加载。
func LoadCache(dir string) (*Cache, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, ErrAssetDirUnreadable.WithData("dir", dir).WithCause(err)
	}

	entries := make(map[string][]byte, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		path := filepath.Join(dir, item.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrAssetUnreadable.WithData("file", path).WithCause(err)
		}
		entries[item.Name()] = data
	}
	return &Cache{dir: dir, entries: entries}, nil
}

func (c *Cache) Get(name string) ([]byte, bool) {
	data, ok := c.entries[name]
	return data, ok
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) Dir() string {
	return c.dir
}

// Names 返回排好序的文件名，启动日志用。
func (c *Cache) Names() []string {
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
