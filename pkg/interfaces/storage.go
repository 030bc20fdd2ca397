package interfaces

import "github.com/IFIR649/react-pc-mobile/pkg/types"

// EndpointStore 保存最近一次验证成功的服务端地址
//
// 只有一个槽位：Save 覆盖旧值，Clear 在为空时也不报错。
// 失败时返回的错误包装 types.ErrStorage。
type EndpointStore interface {
	// Save 保存地址
	Save(ep types.Endpoint) error

	// Load 读取地址，ok 为 false 表示没有保存过
	Load() (ep types.Endpoint, ok bool, err error)

	// Clear 清除地址
	Clear() error
}
