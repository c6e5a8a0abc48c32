package serverconfig

import (
	"LocalServer/internal/shared/config"
	"LocalServer/modules/kit/errx"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

var defaults = map[string]any{
	"server.name":         "LocalServer",
	"server.secure":       false,
	"server.port":         12345,
	"server.host":         "localhost",
	"server.heartbeat":    10,
	"server.static_dir":   "./static/",
	"server.cert_file":    "",
	"server.key_file":     "",
	"server.watch_assets": false,
	"log.level":           "info",
	"log.file":            "",
	"log.max_size":        100,
	"log.max_backups":     3,
	"log.max_age":         7,
	"log.compress":        false,
	"log.dev":             false,
}

var envBindings = map[string]string{
	"server.name":         "SERVER_NAME",
	"server.secure":       "SERVER_SECURE",
	"server.port":         "SERVER_PORT",
	"server.host":         "SERVER_HOST",
	"server.heartbeat":    "HEARTBEAT_INTERVAL",
	"server.static_dir":   "STATIC_DIR",
	"server.cert_file":    "TLS_CERT_FILE",
	"server.key_file":     "TLS_KEY_FILE",
	"server.watch_assets": "WATCH_ASSETS",
	"log.level":           "LOG_LEVEL",
	"log.file":            "LOG_FILE",
}

// Load 解析配置，优先级：overrides（进程内传入）> 环境变量 > 配置文件 > 默认值。
// cfgName 为空时向上查找 configs/conf.yml，找不到也不算错。
func Load(cfgName string, overrides map[string]any) (Config, error) {
	v, err := config.New(cfgName)
	if err != nil {
		return Config{}, errx.ErrConfigInvalid.WithCause(err)
	}
	return decode(v, overrides)
}

func decode(v *viper.Viper, overrides map[string]any) (Config, error) {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	for k, env := range envBindings {
		if err := v.BindEnv(k, env); err != nil {
			return Config{}, errx.ErrConfigInvalid.WithCause(err)
		}
	}
	for k, o := range overrides {
		v.Set(k, o)
	}

	var c Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&c, hook); err != nil {
		return Config{}, errx.ErrConfigInvalid.WithCause(err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return errx.ErrConfigInvalid.WithData("server.port", s.Port)
	}
	if s.HeartbeatSeconds <= 0 {
		return errx.ErrConfigInvalid.WithData("server.heartbeat", s.HeartbeatSeconds)
	}
	if s.StaticDir == "" {
		return errx.ErrConfigInvalid.WithData("server.static_dir", s.StaticDir)
	}
	if s.Secure && (s.CertFile == "" || s.KeyFile == "") {
		return errx.ErrConfigInvalid.WithData("server.secure", "cert_file/key_file required")
	}
	return nil
}
