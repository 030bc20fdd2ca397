package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := engine.DefaultConfig(filepath.Join(t.TempDir(), "db"))
	cfg.GCInterval = 0
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.Start())
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngine_Basic(t *testing.T) {
	e := newTestEngine(t)

	t.Run("写入与读取", func(t *testing.T) {
		require.NoError(t, e.Put([]byte("k1"), []byte("v1")))
		v, err := e.Get([]byte("k1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), v)

		ok, err := e.Has([]byte("k1"))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("覆盖写入", func(t *testing.T) {
		require.NoError(t, e.Put([]byte("k1"), []byte("v2")))
		v, err := e.Get([]byte("k1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), v)
	})

	t.Run("不存在的键", func(t *testing.T) {
		_, err := e.Get([]byte("missing"))
		assert.True(t, engine.IsNotFound(err))

		ok, err := e.Has([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("删除不存在的键不报错", func(t *testing.T) {
		require.NoError(t, e.Delete([]byte("k1")))
		require.NoError(t, e.Delete([]byte("k1")))
		_, err := e.Get([]byte("k1"))
		assert.ErrorIs(t, err, engine.ErrNotFound)
	})

	t.Run("空键", func(t *testing.T) {
		assert.ErrorIs(t, e.Put(nil, []byte("v")), engine.ErrEmptyKey)
		_, err := e.Get(nil)
		assert.ErrorIs(t, err, engine.ErrEmptyKey)
	})
}

func TestEngine_Update(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Put([]byte("counter"), []byte("1")))

	err := e.Update(func(txn engine.Txn) error {
		v, err := txn.Get([]byte("counter"))
		if err != nil {
			return err
		}
		return txn.Set([]byte("counter"), append(v, '1'))
	})
	require.NoError(t, err)
	v, err := e.Get([]byte("counter"))
	require.NoError(t, err)
	assert.Equal(t, []byte("11"), v)

	t.Run("回滚", func(t *testing.T) {
		err := e.Update(func(txn engine.Txn) error {
			if err := txn.Set([]byte("counter"), []byte("x")); err != nil {
				return err
			}
			return fmt.Errorf("abort")
		})
		require.Error(t, err)
		v, _ := e.Get([]byte("counter"))
		assert.Equal(t, []byte("11"), v)
	})

	t.Run("事务内读取不存在的键", func(t *testing.T) {
		err := e.Update(func(txn engine.Txn) error {
			_, err := txn.Get([]byte("nope"))
			return err
		})
		assert.ErrorIs(t, err, engine.ErrNotFound)
	})
}

func TestEngine_PrefixIterator(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Put([]byte("a/1"), []byte("x")))
	require.NoError(t, e.Put([]byte("a/2"), []byte("y")))
	require.NoError(t, e.Put([]byte("b/1"), []byte("z")))

	it := e.NewPrefixIterator([]byte("a/"))
	defer it.Close()

	var keys []string
	for it.First(); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
		assert.NotNil(t, it.Value())
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"a/1", "a/2"}, keys)
}

func TestEngine_Closed(t *testing.T) {
	cfg := engine.DefaultConfig(filepath.Join(t.TempDir(), "db"))
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.ErrorIs(t, e.Put([]byte("k"), []byte("v")), engine.ErrClosed)
	_, err = e.Get([]byte("k"))
	assert.True(t, engine.IsClosed(err))
	assert.ErrorIs(t, e.NewPrefixIterator(nil).Error(), engine.ErrClosed)
}

func TestEngine_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	e, err := New(engine.DefaultConfig(path))
	require.NoError(t, err)
	require.NoError(t, e.Put([]byte("k"), []byte("v")))
	require.NoError(t, e.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, engine.DirPerm, info.Mode().Perm())

	e, err = New(engine.DefaultConfig(path))
	require.NoError(t, err)
	defer e.Close()
	v, err := e.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestEngine_Encrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	key := []byte("0123456789abcdef0123456789abcdef")

	cfg := engine.DefaultConfig(path)
	cfg.EncryptionKey = key
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.Put([]byte("k"), []byte("secret")))
	require.NoError(t, e.Close())

	cfg = engine.DefaultConfig(path)
	cfg.EncryptionKey = key
	e, err = New(cfg)
	require.NoError(t, err)
	defer e.Close()
	v, err := e.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), v)
}

func TestEngine_InMemory(t *testing.T) {
	e, err := New(&engine.Config{InMemory: true})
	require.NoError(t, err)
	defer e.Close()
	require.NoError(t, e.Put([]byte("k"), []byte("v")))
	ok, err := e.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, (&engine.Config{}).Validate(), engine.ErrInvalidConfig)
	assert.ErrorIs(t, (&engine.Config{Path: "x", EncryptionKey: []byte("short")}).Validate(), engine.ErrInvalidConfig)
	assert.ErrorIs(t, (&engine.Config{Path: "x", GCDiscardRatio: 1}).Validate(), engine.ErrInvalidConfig)
	assert.NoError(t, engine.DefaultConfig("x").Validate())

	_, err := New(nil)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}
