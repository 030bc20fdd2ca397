package types

import "errors"

// ============================================================================
//                              连接发现相关错误
// ============================================================================

var (
	// ErrInvalidEndpoint 地址格式无效
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrUnreachableEndpoint 候选地址存活探测失败
	ErrUnreachableEndpoint = errors.New("endpoint unreachable")

	// ErrDiscoveryUnavailable 组播发现不可用（监听器启动失败或异常终止）
	ErrDiscoveryUnavailable = errors.New("discovery unavailable")

	// ErrInvalidCode 配对码无法解码为候选地址
	ErrInvalidCode = errors.New("invalid pairing code")

	// ErrStorage 持久化存储读写失败
	ErrStorage = errors.New("storage error")
)

// ============================================================================
//                              连接相关错误
// ============================================================================

var (
	// ErrNotConnected 当前没有已验证的服务端地址
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected 已连接状态下不接受新的配对码
	ErrAlreadyConnected = errors.New("already connected")
)
