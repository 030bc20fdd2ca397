package pclink

import (
	"errors"

	"github.com/IFIR649/react-pc-mobile/internal/core/itemsclient"
	"github.com/IFIR649/react-pc-mobile/internal/core/reconciler"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 尚未调用 Start
	ErrNotStarted = errors.New("pclink: not started")

	// ErrAlreadyStarted 重复调用 Start
	ErrAlreadyStarted = errors.New("pclink: already started")

	// ErrClosed 已调用 Stop
	ErrClosed = errors.New("pclink: closed")

	// ErrNotRunning 连接状态机未运行
	ErrNotRunning = reconciler.ErrNotRunning

	// ────────────────────────────────────────────────────────────────────────
	// 连接相关错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidEndpoint 地址格式无效
	ErrInvalidEndpoint = types.ErrInvalidEndpoint

	// ErrInvalidCode 配对码无法解码
	ErrInvalidCode = types.ErrInvalidCode

	// ErrNotConnected 当前没有已验证的服务端地址
	ErrNotConnected = types.ErrNotConnected

	// ErrAlreadyConnected 已连接时提交配对码
	ErrAlreadyConnected = types.ErrAlreadyConnected

	// ErrDiscoveryUnavailable 组播发现不可用
	ErrDiscoveryUnavailable = types.ErrDiscoveryUnavailable

	// ErrStorage 持久化存储读写失败
	ErrStorage = types.ErrStorage

	// ────────────────────────────────────────────────────────────────────────
	// 记录 API 错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrItemNotFound 记录不存在
	ErrItemNotFound = itemsclient.ErrNotFound

	// ErrBadRequest 请求参数被服务端拒绝
	ErrBadRequest = itemsclient.ErrBadRequest
)
