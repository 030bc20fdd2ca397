// Package endpointstore 持久化最近一次验证成功的服务端地址
//
// 只有一个槽位。连接成功时写入，用户选择“忘记服务端”时清除；
// 探测失败不会清除，下次启动仍会先尝试该地址。
package endpointstore

import (
	"fmt"

	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/kv"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

var log = logger.Logger("endpointstore")

// Prefix 在存储引擎中的命名空间
const Prefix = "client/"

var endpointKey = []byte("last-endpoint")

// StorageError 存储读写失败
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("endpointstore: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, types.ErrStorage) 成立
func (e *StorageError) Is(target error) bool {
	return target == types.ErrStorage
}

// Store 基于 KV 的地址存储
type Store struct {
	kv *kv.Store
}

// New 创建地址存储
func New(eng engine.Engine) *Store {
	return &Store{kv: kv.New(eng, []byte(Prefix))}
}

// Save 保存地址，覆盖旧值
func (s *Store) Save(ep types.Endpoint) error {
	if ep.IsZero() {
		return &StorageError{Op: "save", Err: types.ErrInvalidEndpoint}
	}
	if err := s.kv.PutString(endpointKey, ep.String()); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	log.Debug("已保存地址", "endpoint", ep)
	return nil
}

// Load 读取地址
//
// 从未保存或已清除时返回 ok=false 且无错误；
// 保存的内容无法解析时返回包装 engine.ErrCorrupted 的 StorageError。
func (s *Store) Load() (types.Endpoint, bool, error) {
	raw, err := s.kv.GetString(endpointKey)
	if err != nil {
		if engine.IsNotFound(err) {
			return types.Endpoint{}, false, nil
		}
		return types.Endpoint{}, false, &StorageError{Op: "load", Err: err}
	}
	ep, err := types.ParseEndpoint(raw)
	if err != nil {
		return types.Endpoint{}, false, &StorageError{Op: "load", Err: fmt.Errorf("%w: %v", engine.ErrCorrupted, err)}
	}
	return ep, true, nil
}

// Clear 清除地址，为空时也返回 nil
func (s *Store) Clear() error {
	if err := s.kv.Delete(endpointKey); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	log.Debug("已清除地址")
	return nil
}

var _ interfaces.EndpointStore = (*Store)(nil)
