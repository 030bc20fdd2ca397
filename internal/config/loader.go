package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
)

var log = logger.Logger("config")

// EnvPrefix 环境变量前缀，例如 PCLINK_CLIENT_RECONCILER_DISCOVERY_TIMEOUT=3s
const EnvPrefix = "PCLINK"

// Load 加载配置
//
// 优先级（从低到高）：默认值 < 配置文件 < .env 文件 < 环境变量。
// path 为空时只使用默认值和环境变量；.env 从工作目录和配置文件所在目录查找。
func Load(path string) (*Config, error) {
	v := viper.New()
	registerDefaults(v, "", reflect.ValueOf(NewConfig()).Elem())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	dirs := []string{"."}
	if path != "" {
		dirs = append(dirs, filepath.Dir(path))
	}
	loadDotEnv(dirs...)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		log.Debug("已加载配置文件", "path", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv 加载 .env 文件，已存在的环境变量不会被覆盖
func loadDotEnv(dirs ...string) {
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		p := filepath.Join(dir, ".env")
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if seen[p] {
			continue
		}
		seen[p] = true

		if err := godotenv.Load(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn("加载 .env 失败", "path", p, "err", err)
			}
			continue
		}
		log.Debug("已加载 .env", "path", p)
	}
}

// registerDefaults 把默认配置逐个键注册到 viper，AutomaticEnv 只对已知键生效
func registerDefaults(v *viper.Viper, prefix string, val reflect.Value) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fv := val.Field(i)
		if fv.Kind() == reflect.Struct {
			registerDefaults(v, key, fv)
			continue
		}
		if fv.Kind() == reflect.Map && fv.IsNil() {
			continue
		}
		v.SetDefault(key, fv.Interface())
	}
}
