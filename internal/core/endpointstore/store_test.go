package endpointstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine/badger"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

func newTestStore(t *testing.T) (*Store, engine.Engine) {
	t.Helper()
	cfg := engine.DefaultConfig(filepath.Join(t.TempDir(), "db"))
	cfg.GCInterval = 0
	eng, err := badger.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return New(eng), eng
}

func TestStore_SaveLoad(t *testing.T) {
	s, _ := newTestStore(t)

	t.Run("首次启动为空", func(t *testing.T) {
		_, ok, err := s.Load()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("保存后读取", func(t *testing.T) {
		ep := types.MustParseEndpoint("http://192.168.1.50:4310")
		require.NoError(t, s.Save(ep))

		got, ok, err := s.Load()
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, ep.Equal(got))
	})

	t.Run("覆盖旧值", func(t *testing.T) {
		ep := types.MustParseEndpoint("http://192.168.1.51:4310")
		require.NoError(t, s.Save(ep))

		got, ok, err := s.Load()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "http://192.168.1.51:4310", got.String())
	})

	t.Run("零值地址", func(t *testing.T) {
		err := s.Save(types.Endpoint{})
		assert.ErrorIs(t, err, types.ErrStorage)
		assert.ErrorIs(t, err, types.ErrInvalidEndpoint)
	})
}

func TestStore_Clear(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.Clear())

	require.NoError(t, s.Save(types.MustParseEndpoint("http://10.0.0.2:4310")))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_Corrupted(t *testing.T) {
	s, eng := newTestStore(t)
	require.NoError(t, eng.Put([]byte(Prefix+"last-endpoint"), []byte("not-a-url")))

	_, ok, err := s.Load()
	assert.False(t, ok)
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.ErrorIs(t, err, engine.ErrCorrupted)

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "load", se.Op)
}

func TestStore_Closed(t *testing.T) {
	s, eng := newTestStore(t)
	require.NoError(t, eng.Close())

	err := s.Save(types.MustParseEndpoint("http://10.0.0.2:4310"))
	assert.ErrorIs(t, err, types.ErrStorage)
	assert.ErrorIs(t, err, engine.ErrClosed)

	_, _, err = s.Load()
	assert.ErrorIs(t, err, types.ErrStorage)

	assert.ErrorIs(t, s.Clear(), types.ErrStorage)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	eng, err := badger.New(engine.DefaultConfig(path))
	require.NoError(t, err)
	require.NoError(t, New(eng).Save(types.MustParseEndpoint("http://10.0.0.2:4310")))
	require.NoError(t, eng.Close())

	eng, err = badger.New(engine.DefaultConfig(path))
	require.NoError(t, err)
	defer eng.Close()

	got, ok, err := New(eng).Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "http://10.0.0.2:4310", got.String())
}
