package storage

import (
	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
)

// EngineConfig 由统一配置构造指定角色的引擎配置
//
// 配置了 EncryptionKeyFile 时读取（或生成）密钥并启用静态加密；
// 配置了 Passphrase 时由口令和盐文件派生密钥。
func EngineConfig(cfg *config.Config, role string) (*engine.Config, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	sc := cfg.Storage

	ec := engine.DefaultConfig(sc.DBPath(role))
	ec.SyncWrites = sc.SyncWrites
	ec.GCInterval = sc.GCInterval

	switch {
	case sc.EncryptionKeyFile != "":
		key, err := LoadOrCreateKey(sc.EncryptionKeyFile)
		if err != nil {
			return nil, err
		}
		ec.EncryptionKey = key
	case sc.Passphrase != "":
		salt, err := LoadOrCreateSalt(sc.SaltPath())
		if err != nil {
			return nil, err
		}
		ec.EncryptionKey = DeriveKey([]byte(sc.Passphrase), salt)
	}
	return ec, nil
}
