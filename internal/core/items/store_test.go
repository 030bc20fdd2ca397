package items

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine/badger"
)

func newTestStore(t *testing.T) (*Store, *clock.Mock) {
	t.Helper()
	cfg := engine.DefaultConfig(filepath.Join(t.TempDir(), "db"))
	cfg.GCInterval = 0
	eng, err := badger.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })

	clk := clock.NewMock()
	clk.Set(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	return New(eng, clk), clk
}

func TestStore(t *testing.T) {
	t.Run("新建与读取", func(t *testing.T) {
		s, _ := newTestStore(t)

		it, err := s.Create("  Buy milk ")
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", it.Title)
		assert.Len(t, it.ID, 36)
		assert.Equal(t, it.CreatedAt, it.UpdatedAt)

		got, err := s.Get(it.ID)
		require.NoError(t, err)
		assert.Equal(t, it, got)
	})

	t.Run("列表按创建时间倒序", func(t *testing.T) {
		s, clk := newTestStore(t)

		a, err := s.Create("first")
		require.NoError(t, err)
		clk.Add(time.Minute)
		b, err := s.Create("second")
		require.NoError(t, err)

		list, err := s.List()
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b.ID, list[0].ID)
		assert.Equal(t, a.ID, list[1].ID)

		n, err := s.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("空列表", func(t *testing.T) {
		s, _ := newTestStore(t)
		list, err := s.List()
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("修改", func(t *testing.T) {
		s, clk := newTestStore(t)
		it, err := s.Create("draft")
		require.NoError(t, err)

		clk.Add(time.Hour)
		up, err := s.Update(it.ID, "final")
		require.NoError(t, err)
		assert.Equal(t, "final", up.Title)
		assert.Equal(t, it.CreatedAt, up.CreatedAt)
		assert.True(t, up.UpdatedAt.After(it.UpdatedAt))

		_, err = s.Update("missing", "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("删除", func(t *testing.T) {
		s, _ := newTestStore(t)
		it, err := s.Create("tmp")
		require.NoError(t, err)

		require.NoError(t, s.Delete(it.ID))
		assert.ErrorIs(t, s.Delete(it.ID), ErrNotFound)
		_, err = s.Get(it.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("无效标题", func(t *testing.T) {
		s, _ := newTestStore(t)
		_, err := s.Create("   ")
		assert.ErrorIs(t, err, ErrInvalidTitle)
		_, err = s.Create(strings.Repeat("x", MaxTitleLen+1))
		assert.ErrorIs(t, err, ErrInvalidTitle)

		it, err := s.Create(strings.Repeat("字", MaxTitleLen))
		require.NoError(t, err)
		_, err = s.Update(it.ID, "")
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})
}
