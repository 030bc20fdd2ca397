// Package items 服务端记录存储
//
// 记录以 JSON 保存在 items/ 前缀下，键为 UUID。
package items

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/kv"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

var log = logger.Logger("items")

// Prefix 在存储引擎中的命名空间
const Prefix = "items/"

// MaxTitleLen 标题最大字符数
const MaxTitleLen = 200

// 预定义错误
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("items: not found")

	// ErrInvalidTitle 标题为空或过长
	ErrInvalidTitle = errors.New("items: invalid title")
)

// Store 记录存储
type Store struct {
	kv    *kv.Store
	clock clock.Clock
}

// New 创建记录存储，clk 为空时使用系统时钟
func New(eng engine.Engine, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{kv: kv.New(eng, []byte(Prefix)), clock: clk}
}

// List 返回全部记录，按创建时间从新到旧
func (s *Store) List() ([]types.Item, error) {
	var out []types.Item
	err := s.kv.ForEach(func(key, value []byte) error {
		var it types.Item
		if err := json.Unmarshal(value, &it); err != nil {
			log.Warn("跳过损坏的记录", "id", string(key), "err", err)
			return nil
		}
		out = append(out, it)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("items: list: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if out == nil {
		out = []types.Item{}
	}
	return out, nil
}

// Get 读取一条记录
func (s *Store) Get(id string) (types.Item, error) {
	var it types.Item
	if err := s.kv.GetJSON([]byte(id), &it); err != nil {
		if engine.IsNotFound(err) {
			return types.Item{}, ErrNotFound
		}
		return types.Item{}, fmt.Errorf("items: get %s: %w", id, err)
	}
	return it, nil
}

// Create 新建记录
func (s *Store) Create(title string) (types.Item, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return types.Item{}, err
	}
	now := s.clock.Now().UTC()
	it := types.Item{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.kv.PutJSON([]byte(it.ID), it); err != nil {
		return types.Item{}, fmt.Errorf("items: create: %w", err)
	}
	log.Debug("新建记录", "id", it.ID)
	return it, nil
}

// Update 修改标题
func (s *Store) Update(id, title string) (types.Item, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return types.Item{}, err
	}

	var it types.Item
	err = s.kv.Update(func(txn *kv.Txn) error {
		if err := txn.GetJSON([]byte(id), &it); err != nil {
			return err
		}
		it.Title = title
		it.UpdatedAt = s.clock.Now().UTC()
		return txn.PutJSON([]byte(id), it)
	})
	switch {
	case engine.IsNotFound(err):
		return types.Item{}, ErrNotFound
	case err != nil:
		return types.Item{}, fmt.Errorf("items: update %s: %w", id, err)
	}
	return it, nil
}

// Delete 删除记录
func (s *Store) Delete(id string) error {
	err := s.kv.Update(func(txn *kv.Txn) error {
		if _, err := txn.Get([]byte(id)); err != nil {
			return err
		}
		return txn.Delete([]byte(id))
	})
	switch {
	case engine.IsNotFound(err):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("items: delete %s: %w", id, err)
	}
	log.Debug("删除记录", "id", id)
	return nil
}

// Count 返回记录数
func (s *Store) Count() (int, error) {
	n := 0
	err := s.kv.ForEach(func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidTitle, MaxTitleLen)
	}
	return title, nil
}
