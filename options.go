package pclink

import (
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 配置文件
	configFile string

	// 存储
	dataDir string

	// 服务端
	host      string
	port      int
	name      string
	advertise *bool

	// 客户端
	metricsAddr string
	discovery   interfaces.Discovery

	// 日志文件
	logFile string

	clock clock.Clock
}

// WithConfigFile 从文件加载配置（yaml/json/toml）
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configFile = path
		return nil
	}
}

// WithDataDir 设置数据目录
func WithDataDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return fmt.Errorf("data dir cannot be empty")
		}
		o.dataDir = dir
		return nil
	}
}

// WithHost 设置服务端监听主机
func WithHost(host string) Option {
	return func(o *options) error {
		o.host = host
		return nil
	}
}

// WithPort 设置服务端监听端口
func WithPort(port int) Option {
	return func(o *options) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("port %d out of range", port)
		}
		o.port = port
		return nil
	}
}

// WithName 设置服务端名称（广播与配对码中显示）
func WithName(name string) Option {
	return func(o *options) error {
		o.name = name
		return nil
	}
}

// WithAdvertise 开启或关闭服务端 mDNS 广播
func WithAdvertise(enabled bool) Option {
	return func(o *options) error {
		o.advertise = &enabled
		return nil
	}
}

// WithMetricsAddr 客户端在 addr 上暴露 /metrics
func WithMetricsAddr(addr string) Option {
	return func(o *options) error {
		o.metricsAddr = addr
		return nil
	}
}

// WithDiscovery 用自定义发现通道替换 mDNS 发现
func WithDiscovery(d interfaces.Discovery) Option {
	return func(o *options) error {
		if d == nil {
			return fmt.Errorf("discovery cannot be nil")
		}
		o.discovery = d
		return nil
	}
}

// WithLogFile 将日志写入文件
func WithLogFile(path string) Option {
	return func(o *options) error {
		o.logFile = path
		return nil
	}
}

// WithClock 设置时钟
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}

// applyOptions 执行选项并生成最终配置
func applyOptions(opts []Option) (*options, *config.Config, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}

	if o.dataDir != "" {
		cfg.Storage.DataDir = o.dataDir
	}
	if o.host != "" {
		cfg.Server.Host = o.host
	}
	if o.port != 0 {
		cfg.Server.Port = o.port
	}
	if o.name != "" {
		cfg.Server.Name = o.name
	}
	if o.advertise != nil {
		cfg.Server.Advertise.Enabled = *o.advertise
	}
	if o.metricsAddr != "" {
		cfg.Client.MetricsAddr = o.metricsAddr
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	return o, cfg, nil
}
