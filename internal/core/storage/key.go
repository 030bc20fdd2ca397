package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
)

// KeySize 生成的加密密钥长度（AES-256）
const KeySize = 32

// SaltSize 口令派生使用的盐长度
const SaltSize = 16

// Argon2 参数
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
)

// DeriveKey 用 Argon2id 从口令派生 KeySize 字节的密钥
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, KeySize)
}

// LoadOrCreateSalt 读取十六进制编码的盐文件，不存在时生成
//
// 盐丢失后已有数据无法再用同一口令打开。
func LoadOrCreateSalt(path string) ([]byte, error) {
	salt, err := loadOrCreateHex(path, SaltSize)
	if err != nil {
		return nil, err
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("%w: salt file %s: too short", engine.ErrInvalidConfig, path)
	}
	return salt, nil
}

// LoadOrCreateKey 读取十六进制编码的密钥文件，不存在时生成新密钥并以 0600 写入
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := loadOrCreateHex(path, KeySize)
	if err != nil {
		return nil, err
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, fmt.Errorf("%w: key file %s: bad length %d", engine.ErrInvalidConfig, path, len(key))
	}
}

// loadOrCreateHex 读取十六进制文件，不存在时生成 size 字节随机数并以 0600 写入
func loadOrCreateHex(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		b, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", engine.ErrInvalidConfig, path, err)
		}
		return b, nil
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), engine.DirPerm); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(b)+"\n"), 0o600); err != nil {
		return nil, err
	}
	log.Info("已生成存储密钥材料", "path", path)
	return b, nil
}
