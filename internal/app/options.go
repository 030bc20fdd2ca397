package app

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
)

// BootstrapOption Bootstrap 配置选项
type BootstrapOption func(*Bootstrap)

// WithConfig 设置配置
func WithConfig(cfg *config.Config) BootstrapOption {
	return func(b *Bootstrap) {
		b.config = cfg
	}
}

// WithDiscovery 用自定义发现通道替换组播发现
func WithDiscovery(d interfaces.Discovery) BootstrapOption {
	return func(b *Bootstrap) {
		b.discovery = d
	}
}

// WithClock 设置注入到各组件的时钟
func WithClock(c clock.Clock) BootstrapOption {
	return func(b *Bootstrap) {
		b.clock = c
	}
}

// WithFxOptions 追加额外的 fx 选项
func WithFxOptions(opts ...fx.Option) BootstrapOption {
	return func(b *Bootstrap) {
		b.extra = append(b.extra, opts...)
	}
}

// WithTimeouts 设置 fx 启动/停止超时
func WithTimeouts(start, stop time.Duration) BootstrapOption {
	return func(b *Bootstrap) {
		if start > 0 {
			b.opts.StartTimeout = start
		}
		if stop > 0 {
			b.opts.StopTimeout = stop
		}
	}
}

// BuildOptions 构建选项
type BuildOptions struct {
	// StartTimeout 启动超时
	StartTimeout time.Duration

	// StopTimeout 停止超时
	StopTimeout time.Duration
}

// DefaultBuildOptions 默认构建选项
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		StartTimeout: 30 * time.Second,
		StopTimeout:  30 * time.Second,
	}
}
