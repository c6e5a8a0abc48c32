package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const DefaultConfigRelPath = "configs/conf.yml"

// New 创建一个 viper 实例并读入配置文件。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则必须存在，否则返回错误；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`，找不到就只用默认值和环境变量。
func New(cfgName string) (*viper.Viper, error) {
	v := viper.New()

	path, err := resolve(cfgName)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

func resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if !filepath.IsAbs(cfgName) {
			cfgName = filepath.Join(curDir, cfgName)
		}
		if !fileExist(cfgName) {
			return "", fmt.Errorf("config file not exist, configPath=%v", cfgName)
		}
		return cfgName, nil
	}
	path, _ := FindConfigUpward(curDir)
	return path, nil
}

// FindConfigUpward 从 startDir 逐级向上查找 configs/conf.yml。
func FindConfigUpward(startDir string) (string, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	fi, err := os.Stat(fileName)
	return err == nil && !fi.IsDir()
}
