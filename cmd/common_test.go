package cmd

import (
	"testing"

	"LocalServer/internal/shared/logs"
	"LocalServer/internal/shared/serverconfig"

	"go.uber.org/zap"
)

func TestReadConfig(t *testing.T) {
	conf, err := serverconfig.Load("", nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := logs.Init("TestReadConfig", conf.Log); err != nil {
		t.Fatalf("init logs: %v", err)
	}
	logs.Info("conf", zap.Any("conf", conf))
}
