// Package engine 定义存储引擎接口
//
// 上层组件（endpointstore、items）通过 kv.Store 使用引擎，
// 不直接依赖 BadgerDB。所有实现必须保证线程安全。
package engine

// Engine 存储引擎接口
type Engine interface {
	// Get 获取值，键不存在时返回 ErrNotFound
	Get(key []byte) ([]byte, error)

	// Put 写入键值对
	Put(key, value []byte) error

	// Delete 删除键，键不存在时不报错
	Delete(key []byte) error

	// Has 检查键是否存在
	Has(key []byte) (bool, error)

	// Update 在读写事务中执行 fn，fn 返回错误时回滚
	Update(fn func(txn Txn) error) error

	// NewPrefixIterator 创建前缀迭代器，调用者负责 Close
	NewPrefixIterator(prefix []byte) Iterator

	// Start 启动后台任务（值日志 GC）
	Start() error

	// Close 关闭引擎，可重复调用
	Close() error
}

// Txn 事务内的读写操作
type Txn interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Iterator 迭代器接口
//
// 迭代器保持创建时的快照视图，不受后续写入影响。
//
//	it := eng.NewPrefixIterator([]byte("items/"))
//	defer it.Close()
//	for it.First(); it.Valid(); it.Next() {
//	    _ = it.Key()
//	}
//	return it.Error()
type Iterator interface {
	// First 移动到第一个键值对
	First() bool

	// Next 移动到下一个键值对
	Next() bool

	// Valid 当前位置是否有效
	Valid() bool

	// Key 返回当前键的副本
	Key() []byte

	// Value 返回当前值的副本
	Value() []byte

	// Close 释放迭代器
	Close()

	// Error 返回迭代过程中的错误
	Error() error
}
