// Package kv 提供带前缀隔离的 KV 存储
//
// Store 在存储引擎之上提供命名空间隔离，每个组件使用自己的前缀：
//   - client/ - 客户端连接地址（endpointstore）
//   - items/  - 服务端记录（items）
//
//	client := kv.New(eng, []byte("client/"))
//	client.PutString([]byte("last-endpoint"), ep.String()) // 实际键: client/last-endpoint
package kv

import (
	"encoding/json"
	"fmt"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
)

// Store 带前缀隔离的 KV 存储
type Store struct {
	engine engine.Engine
	prefix []byte
}

// New 创建 KV 存储
func New(eng engine.Engine, prefix []byte) *Store {
	return &Store{
		engine: eng,
		prefix: append([]byte(nil), prefix...),
	}
}

// Prefix 返回前缀
func (s *Store) Prefix() []byte {
	return s.prefix
}

func (s *Store) prefixKey(key []byte) []byte {
	prefixed := make([]byte, len(s.prefix)+len(key))
	copy(prefixed, s.prefix)
	copy(prefixed[len(s.prefix):], key)
	return prefixed
}

// ============= 基础操作 =============

// Get 获取指定键的值
func (s *Store) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, engine.ErrEmptyKey
	}
	return s.engine.Get(s.prefixKey(key))
}

// Put 设置键值对
func (s *Store) Put(key, value []byte) error {
	if len(key) == 0 {
		return engine.ErrEmptyKey
	}
	return s.engine.Put(s.prefixKey(key), value)
}

// Delete 删除指定键
func (s *Store) Delete(key []byte) error {
	if len(key) == 0 {
		return engine.ErrEmptyKey
	}
	return s.engine.Delete(s.prefixKey(key))
}

// Has 检查键是否存在
func (s *Store) Has(key []byte) (bool, error) {
	if len(key) == 0 {
		return false, engine.ErrEmptyKey
	}
	return s.engine.Has(s.prefixKey(key))
}

// ============= 便捷方法 =============

// GetString 获取字符串值
func (s *Store) GetString(key []byte) (string, error) {
	data, err := s.Get(key)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PutString 存储字符串值
func (s *Store) PutString(key []byte, value string) error {
	return s.Put(key, []byte(value))
}

// GetJSON 获取并反序列化 JSON 值，内容无法解析时返回 ErrCorrupted
func (s *Store) GetJSON(key []byte, v any) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrCorrupted, err)
	}
	return nil
}

// PutJSON 序列化并存储 JSON 值
func (s *Store) PutJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(key, data)
}

// ============= 事务与遍历 =============

// Txn 带前缀的事务视图
type Txn struct {
	s   *Store
	txn engine.Txn
}

// Get 在事务中读取
func (t *Txn) Get(key []byte) ([]byte, error) {
	return t.txn.Get(t.s.prefixKey(key))
}

// GetJSON 在事务中读取 JSON
func (t *Txn) GetJSON(key []byte, v any) error {
	data, err := t.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrCorrupted, err)
	}
	return nil
}

// PutJSON 在事务中写入 JSON
func (t *Txn) PutJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return t.txn.Set(t.s.prefixKey(key), data)
}

// Delete 在事务中删除
func (t *Txn) Delete(key []byte) error {
	return t.txn.Delete(t.s.prefixKey(key))
}

// Update 在读写事务中执行 fn
func (s *Store) Update(fn func(txn *Txn) error) error {
	return s.engine.Update(func(txn engine.Txn) error {
		return fn(&Txn{s: s, txn: txn})
	})
}

// ForEach 按键顺序遍历本前缀下的所有键值对，key 已去掉前缀；fn 返回错误时停止
func (s *Store) ForEach(fn func(key, value []byte) error) error {
	it := s.engine.NewPrefixIterator(s.prefix)
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		key := it.Key()[len(s.prefix):]
		value := it.Value()
		if err := it.Error(); err != nil {
			return err
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return it.Error()
}
