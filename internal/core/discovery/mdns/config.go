package mdns

import (
	"fmt"
	"time"

	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
)

// BrowserConfig 发现配置
type BrowserConfig struct {
	// Domain DNS-SD 域
	Domain string

	// QueryInterval 两轮查询之间的间隔
	QueryInterval time.Duration

	// QueryTimeout 单轮查询等待应答的时间
	QueryTimeout time.Duration

	// DedupeSize 去重集合容量
	DedupeSize int

	// Interface 指定网卡
	Interface string

	// DisableIPv6 不在 IPv6 上查询
	DisableIPv6 bool
}

// DefaultBrowserConfig 返回默认发现配置
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Domain:        protocolids.ServiceDomain,
		QueryInterval: 2 * time.Second,
		QueryTimeout:  time.Second,
		DedupeSize:    256,
	}
}

// Validate 验证配置
func (c BrowserConfig) Validate() error {
	if c.QueryInterval <= 0 || c.QueryTimeout <= 0 {
		return fmt.Errorf("%w: query interval and timeout must be positive", ErrInvalidConfig)
	}
	if c.DedupeSize <= 0 {
		return fmt.Errorf("%w: dedupe size must be positive", ErrInvalidConfig)
	}
	return nil
}

// AdvertiserConfig 广播配置
type AdvertiserConfig struct {
	// Domain DNS-SD 域
	Domain string

	// HostName 主机名，为空时使用系统主机名
	HostName string

	// Scheme 服务协议，写入 TXT scheme=
	Scheme string

	// Interface 指定网卡
	Interface string

	// IPs 广播的地址，为空时自动枚举局域网 IPv4
	IPs []string
}

// DefaultAdvertiserConfig 返回默认广播配置
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Domain: protocolids.ServiceDomain,
		Scheme: "http",
	}
}
