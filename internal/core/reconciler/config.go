package reconciler

import (
	"errors"
	"fmt"
	"time"

	"github.com/IFIR649/react-pc-mobile/internal/core/liveness"
	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
)

// 预定义错误
var (
	// ErrAlreadyStarted 已启动
	ErrAlreadyStarted = errors.New("reconciler: already started")

	// ErrNotRunning 未启动或已停止
	ErrNotRunning = errors.New("reconciler: not running")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("reconciler: invalid config")
)

// Config 状态机配置
type Config struct {
	// ServiceType 组播服务类型
	ServiceType string

	// ProbeTimeout 单次存活探测超时
	ProbeTimeout time.Duration

	// DiscoveryTimeout 发现多久无结果后提示使用配对码
	DiscoveryTimeout time.Duration

	// ReprobeInterval 已连接后的周期探测间隔，0 表示禁用
	ReprobeInterval time.Duration

	// ReprobeFailures 周期探测连续失败多少次判定断开
	ReprobeFailures int

	// DiscoveryRetryInterval 组播不可用后重试间隔，0 表示不重试
	DiscoveryRetryInterval time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		ServiceType:            protocolids.ServiceType,
		ProbeTimeout:           liveness.DefaultTimeout,
		DiscoveryTimeout:       6 * time.Second,
		ReprobeInterval:        2 * time.Second,
		ReprobeFailures:        1,
		DiscoveryRetryInterval: 15 * time.Second,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	switch {
	case c.ServiceType == "":
		return fmt.Errorf("%w: empty service type", ErrInvalidConfig)
	case c.ProbeTimeout <= 0:
		return fmt.Errorf("%w: probe timeout must be positive", ErrInvalidConfig)
	case c.DiscoveryTimeout <= 0:
		return fmt.Errorf("%w: discovery timeout must be positive", ErrInvalidConfig)
	case c.ReprobeInterval < 0 || c.DiscoveryRetryInterval < 0:
		return fmt.Errorf("%w: negative interval", ErrInvalidConfig)
	case c.ReprobeFailures < 1:
		return fmt.Errorf("%w: reprobe failures must be at least 1", ErrInvalidConfig)
	}
	return nil
}
