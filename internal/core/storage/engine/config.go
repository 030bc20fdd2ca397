package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DirPerm 数据目录权限，仅当前用户可访问
const DirPerm os.FileMode = 0o700

// Config 存储引擎配置
//
// 测试代码应使用 t.TempDir() 创建临时目录，确保测试与生产一致。
type Config struct {
	// Path 数据目录（InMemory 为 false 时必需）
	Path string

	// InMemory 纯内存模式，不落盘
	InMemory bool

	// SyncWrites 每次写入都同步到磁盘
	SyncWrites bool

	// ReadOnly 只读模式
	ReadOnly bool

	// EncryptionKey 静态加密密钥，长度必须为 16、24 或 32 字节；为空时不加密
	EncryptionKey []byte

	// GCInterval 值日志垃圾回收间隔，0 表示禁用
	GCInterval time.Duration

	// GCDiscardRatio 垃圾回收丢弃比例
	GCDiscardRatio float64
}

// DefaultConfig 返回默认配置
func DefaultConfig(path string) *Config {
	return &Config{
		Path:           path,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("%w: path required", ErrInvalidConfig)
	}
	switch len(c.EncryptionKey) {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("%w: encryption key must be 16, 24 or 32 bytes", ErrInvalidConfig)
	}
	if c.GCInterval < 0 || c.GCDiscardRatio < 0 || c.GCDiscardRatio >= 1 {
		return fmt.Errorf("%w: bad gc settings", ErrInvalidConfig)
	}
	return nil
}

// EnsureDir 创建数据目录并收紧权限
func (c *Config) EnsureDir() error {
	if c.InMemory {
		return nil
	}
	abs, err := filepath.Abs(c.Path)
	if err != nil {
		return err
	}
	c.Path = abs
	if err := os.MkdirAll(c.Path, DirPerm); err != nil {
		return err
	}
	return os.Chmod(c.Path, DirPerm)
}
