package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, protocolids.ServiceType, cfg.ServiceType)
	assert.Equal(t, protocolids.DefaultPort, cfg.Server.Port)
	assert.Equal(t, 4*time.Second, cfg.Client.Liveness.ProbeTimeout)
	assert.Equal(t, 6*time.Second, cfg.Client.Reconciler.DiscoveryTimeout)
	assert.Equal(t, 2*time.Second, cfg.Client.Reconciler.ReprobeInterval)
	assert.Equal(t, 1, cfg.Client.Reconciler.ReprobeFailures)
	assert.True(t, cfg.Server.Advertise.Enabled)
	assert.Equal(t, filepath.Join(cfg.Storage.DataDir, "client", "db"), cfg.Storage.DBPath(RoleClient))
}

func TestValidate(t *testing.T) {
	t.Run("字段错误被逐一列出", func(t *testing.T) {
		cfg := NewConfig()
		cfg.ServiceType = "pclink"
		cfg.Client.Liveness.ProbeTimeout = 0
		cfg.Client.Reconciler.ReprobeFailures = 0
		cfg.Server.Port = 70000

		err := cfg.Validate()
		require.Error(t, err)

		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("service_type"))
		assert.True(t, errs.Has("client.liveness.probe_timeout"))
		assert.True(t, errs.Has("client.reconciler.reprobe_failures"))
		assert.True(t, errs.Has("server.port"))
		assert.False(t, errs.Has("storage.data_dir"))
	})

	t.Run("探测超时有上限", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Client.Liveness.ProbeTimeout = time.Minute
		assert.Error(t, cfg.Validate())
	})

	t.Run("限速开启时突发容量必须有效", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Server.RateLimit = RateLimitConfig{RPS: 10, Burst: 0}
		assert.Error(t, cfg.Validate())

		cfg.Server.RateLimit = RateLimitConfig{}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("口令与密钥文件互斥", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Storage.Passphrase = "secret"
		cfg.Storage.EncryptionKeyFile = "storage.key"

		var errs ValidationErrors
		require.ErrorAs(t, cfg.Validate(), &errs)
		assert.True(t, errs.Has("storage.passphrase"))
	})
}

func TestLoad(t *testing.T) {
	t.Run("无配置文件使用默认值", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, NewConfig().Client, cfg.Client)
	})

	t.Run("配置文件覆盖默认值", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pclink.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
storage:
  data_dir: `+dir+`
client:
  reconciler:
    discovery_timeout: 3s
    reprobe_failures: 2
server:
  name: desk
  port: 5000
  advertise:
    metadata:
      room: study
`), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, dir, cfg.Storage.DataDir)
		assert.Equal(t, 3*time.Second, cfg.Client.Reconciler.DiscoveryTimeout)
		assert.Equal(t, 2, cfg.Client.Reconciler.ReprobeFailures)
		assert.Equal(t, 2*time.Second, cfg.Client.Reconciler.ReprobeInterval)
		assert.Equal(t, "desk", cfg.Server.Name)
		assert.Equal(t, 5000, cfg.Server.Port)
		assert.Equal(t, "study", cfg.Server.Advertise.Metadata["room"])
	})

	t.Run("环境变量优先于配置文件", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pclink.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 5000\n"), 0o600))
		t.Setenv("PCLINK_SERVER_PORT", "6000")
		t.Setenv("PCLINK_CLIENT_LIVENESS_PROBE_TIMEOUT", "2s")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 6000, cfg.Server.Port)
		assert.Equal(t, 2*time.Second, cfg.Client.Liveness.ProbeTimeout)
	})

	t.Run("读取配置目录下的 .env", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pclink.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  name: desk\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PCLINK_SERVER_NAME=from-dotenv\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("PCLINK_SERVER_NAME") })

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.Server.Name)
	})

	t.Run("无效配置返回校验错误", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "pclink.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o600))

		_, err := Load(path)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.Has("server.port"))
	})

	t.Run("配置文件不存在", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
