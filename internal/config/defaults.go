package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
)

// 存储角色
const (
	RoleClient = "client"
	RoleServer = "server"
)

// NewConfig 返回默认配置
func NewConfig() *Config {
	return &Config{
		ServiceType: protocolids.ServiceType,
		Storage:     DefaultStorageConfig(),
		Client:      DefaultClientConfig(),
		Server:      DefaultServerConfig(),
	}
}

// DefaultStorageConfig 返回默认存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir:    defaultDataDir(),
		GCInterval: 10 * time.Minute,
	}
}

// DefaultClientConfig 返回默认客户端配置
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Discovery: DiscoveryConfig{
			QueryInterval: 2 * time.Second,
			QueryTimeout:  time.Second,
			DedupeSize:    256,
		},
		Liveness: LivenessConfig{
			ProbeTimeout: 4 * time.Second,
			MaxBodyBytes: 4 << 10,
		},
		Reconciler: ReconcilerConfig{
			DiscoveryTimeout:       6 * time.Second,
			ReprobeInterval:        2 * time.Second,
			ReprobeFailures:        1,
			DiscoveryRetryInterval: 15 * time.Second,
		},
		Items: ItemsClientConfig{
			RequestTimeout: 5 * time.Second,
		},
	}
}

// DefaultServerConfig 返回默认服务端配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port: protocolids.DefaultPort,
		Advertise: AdvertiseConfig{
			Enabled: true,
		},
		RateLimit: RateLimitConfig{
			RPS:   50,
			Burst: 100,
		},
		ShutdownTimeout: 5 * time.Second,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "pclink")
	}
	return filepath.Join(".", "data", "pclink")
}

// DisplayName 返回服务端名称，未配置时使用主机名
func (c ServerConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "pclink"
}
