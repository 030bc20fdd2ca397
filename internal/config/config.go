// Package config 提供 pclink 配置管理层
//
// config 包负责：
// - 定义配置结构
// - 提供默认值
// - 配置校验
// - 从文件、.env 与 PCLINK_* 环境变量加载配置
package config

import (
	"path/filepath"
	"time"
)

// Config 配置结构
//
// 客户端与服务端共用一个结构，各自只读取与自己相关的部分。
type Config struct {
	// ServiceType 组播服务类型，客户端与服务端必须一致
	ServiceType string `mapstructure:"service_type"`

	// Storage 存储配置
	Storage StorageConfig `mapstructure:"storage"`

	// Client 客户端配置
	Client ClientConfig `mapstructure:"client"`

	// Server 服务端配置
	Server ServerConfig `mapstructure:"server"`

	// LogFile 日志文件，为空时输出到标准错误
	LogFile string `mapstructure:"log_file"`
}

// StorageConfig 存储配置
//
// 数据目录结构：
//
//	${DataDir}/
//	├── client/db/   # 客户端 BadgerDB（最近一次连接的地址）
//	├── server/db/   # 服务端 BadgerDB（记录）
//	├── storage.key  # 可选的加密密钥
//	└── storage.salt # 口令派生密钥使用的盐
type StorageConfig struct {
	// DataDir 数据目录
	DataDir string `mapstructure:"data_dir"`

	// EncryptionKeyFile 加密密钥文件，为空时不加密
	EncryptionKeyFile string `mapstructure:"encryption_key_file"`

	// Passphrase 口令，非空时用 Argon2id 派生加密密钥，与 EncryptionKeyFile 互斥
	Passphrase string `mapstructure:"passphrase"`

	// SyncWrites 是否同步写入
	SyncWrites bool `mapstructure:"sync_writes"`

	// GCInterval 值日志垃圾回收间隔，0 表示禁用
	GCInterval time.Duration `mapstructure:"gc_interval"`
}

// SaltPath 返回口令派生密钥使用的盐文件
func (c StorageConfig) SaltPath() string {
	return filepath.Join(c.DataDir, "storage.salt")
}

// DBPath 返回指定角色的 BadgerDB 目录
func (c StorageConfig) DBPath(role string) string {
	return filepath.Join(c.DataDir, role, "db")
}

// ClientConfig 客户端配置
type ClientConfig struct {
	// Discovery 组播发现配置
	Discovery DiscoveryConfig `mapstructure:"discovery"`

	// Liveness 存活探测配置
	Liveness LivenessConfig `mapstructure:"liveness"`

	// Reconciler 连接状态机配置
	Reconciler ReconcilerConfig `mapstructure:"reconciler"`

	// Items 记录客户端配置
	Items ItemsClientConfig `mapstructure:"items"`

	// MetricsAddr 指标监听地址，为空时不暴露
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// DiscoveryConfig 组播发现配置
type DiscoveryConfig struct {
	// QueryInterval 两轮查询之间的间隔
	QueryInterval time.Duration `mapstructure:"query_interval"`

	// QueryTimeout 单轮查询等待应答的时间
	QueryTimeout time.Duration `mapstructure:"query_timeout"`

	// DedupeSize 去重集合容量
	DedupeSize int `mapstructure:"dedupe_size"`

	// Interface 指定网卡名，为空时使用系统默认
	Interface string `mapstructure:"interface"`

	// DisableIPv6 不在 IPv6 上发送查询
	DisableIPv6 bool `mapstructure:"disable_ipv6"`
}

// LivenessConfig 存活探测配置
type LivenessConfig struct {
	// ProbeTimeout 单次探测超时
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`

	// MaxBodyBytes 响应体最大读取字节数
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// ReconcilerConfig 连接状态机配置
type ReconcilerConfig struct {
	// DiscoveryTimeout 查找多久无结果后提示使用配对码
	DiscoveryTimeout time.Duration `mapstructure:"discovery_timeout"`

	// ReprobeInterval 已连接后周期探测间隔，0 表示禁用
	ReprobeInterval time.Duration `mapstructure:"reprobe_interval"`

	// ReprobeFailures 连续失败多少次判定断开
	ReprobeFailures int `mapstructure:"reprobe_failures"`

	// DiscoveryRetryInterval 组播不可用后重新尝试的间隔，0 表示不重试
	DiscoveryRetryInterval time.Duration `mapstructure:"discovery_retry_interval"`
}

// ItemsClientConfig 记录客户端配置
type ItemsClientConfig struct {
	// RequestTimeout 单次请求超时
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ServerConfig 服务端配置
type ServerConfig struct {
	// Name 服务端名称，为空时使用主机名
	Name string `mapstructure:"name"`

	// Host 监听主机，为空表示所有网卡
	Host string `mapstructure:"host"`

	// Port 监听端口
	Port int `mapstructure:"port"`

	// Advertise 组播广播配置
	Advertise AdvertiseConfig `mapstructure:"advertise"`

	// RateLimit 请求限速配置
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// ShutdownTimeout 优雅关闭超时
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AdvertiseConfig 组播广播配置
type AdvertiseConfig struct {
	// Enabled 是否广播
	Enabled bool `mapstructure:"enabled"`

	// Interface 指定网卡名，为空时使用系统默认
	Interface string `mapstructure:"interface"`

	// Metadata 附加的 TXT 元数据
	Metadata map[string]string `mapstructure:"metadata"`
}

// RateLimitConfig 请求限速配置
type RateLimitConfig struct {
	// RPS 每秒请求数，0 表示不限速
	RPS float64 `mapstructure:"rps"`

	// Burst 突发容量
	Burst int `mapstructure:"burst"`
}
