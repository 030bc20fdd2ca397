package types

import "time"

// ============================================================================
//                              ConnectionState - 连接状态
// ============================================================================

// StateKind 连接状态种类
type StateKind int

const (
	// StateIdle 空闲，未开始查找或用户已忘记服务端
	StateIdle StateKind = iota
	// StateSearching 查找候选地址中
	StateSearching
	// StateProbing 正在验证某个候选地址
	StateProbing
	// StateConnected 已连接到已验证的地址
	StateConnected
	// StateFailed 查找已终止且未连接
	StateFailed
)

// String 返回状态的字符串表示
func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateProbing:
		return "probing"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 状态栏文案，用户只会看到这几种
const (
	StatusSearching       = "Searching for server..."
	StatusValidating      = "Validating server..."
	StatusConnectedPrefix = "Connected to "
	StatusTryCode         = "Not connected. Try the pairing code."
)

// ConnectionState 连接状态机的一个状态值
//
// 只有 Reconciler 能产生新的状态，其他组件拿到的都是副本。
type ConnectionState struct {
	// Kind 状态种类
	Kind StateKind

	// Candidate 正在验证的候选（仅 Probing）
	Candidate Candidate

	// Endpoint 已连接的地址（仅 Connected）
	Endpoint Endpoint

	// Reason 失败原因（仅 Failed）
	Reason string

	// HintUseCode 查找超时或组播不可用，提示用户改用配对码（Searching/Probing）
	HintUseCode bool

	// Warning 已连接但地址保存失败，下次启动无法自动恢复（仅 Connected）
	Warning string

	// Epoch 查找轮次
	Epoch uint64

	// Since 进入该状态的时间
	Since time.Time
}

// Status 返回面向用户的状态文案
func (s ConnectionState) Status() string {
	switch s.Kind {
	case StateConnected:
		return StatusConnectedPrefix + s.Endpoint.String()
	case StateProbing:
		return StatusValidating
	case StateSearching:
		if s.HintUseCode {
			return StatusTryCode
		}
		return StatusSearching
	default:
		return StatusTryCode
	}
}

// IsConnected 是否已连接
func (s ConnectionState) IsConnected() bool {
	return s.Kind == StateConnected
}
