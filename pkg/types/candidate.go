package types

import "time"

// ============================================================================
//                              Candidate - 候选地址
// ============================================================================

// Source 候选地址来源
type Source int

const (
	// SourcePersisted 上次成功连接时保存的地址
	SourcePersisted Source = iota
	// SourceDiscovered 局域网组播发现
	SourceDiscovered
	// SourceCode 用户输入/扫描的配对码
	SourceCode
)

// String 返回来源的字符串表示
func (s Source) String() string {
	switch s {
	case SourcePersisted:
		return "persisted"
	case SourceDiscovered:
		return "discovered"
	case SourceCode:
		return "code"
	default:
		return "unknown"
	}
}

// Candidate 尚未验证的候选地址
//
// 每个 Candidate 最多被探测一次，探测成功后才可能进入 Connected。
type Candidate struct {
	// Endpoint 候选地址
	Endpoint Endpoint

	// Source 来源
	Source Source

	// DiscoveredAt 获得该候选的时间
	DiscoveredAt time.Time

	// Name 服务端名称（可选，来自广播或配对码）
	Name string
}

// String 返回候选的简要描述
func (c Candidate) String() string {
	return c.Source.String() + ":" + c.Endpoint.String()
}
