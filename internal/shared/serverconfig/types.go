package serverconfig

import (
	"fmt"
	"time"
)

type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig 启动时解析一次，之后只读。
type ServerConfig struct {
	Name             string `yaml:"name" mapstructure:"name"`
	Secure           bool   `yaml:"secure" mapstructure:"secure"`
	Port             int    `yaml:"port" mapstructure:"port"`
	Host             string `yaml:"host" mapstructure:"host"`
	HeartbeatSeconds int    `yaml:"heartbeat" mapstructure:"heartbeat"`
	StaticDir        string `yaml:"static_dir" mapstructure:"static_dir"`
	CertFile         string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile          string `yaml:"key_file" mapstructure:"key_file"`
	WatchAssets      bool   `yaml:"watch_assets" mapstructure:"watch_assets"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c ServerConfig) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatSeconds) * time.Second
}

type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file"`         // 日志文件路径，lumberjack 按它切割
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
