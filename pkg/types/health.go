package types

import "time"

// HealthResult 一次存活探测的结果，只在内存中短暂存在
type HealthResult struct {
	// Alive 是否存活
	Alive bool

	// ServerTime 服务端返回的时间（可选）
	ServerTime time.Time

	// Latency 请求耗时
	Latency time.Duration

	// Reason 探测失败原因（Alive 为 false 时有效）
	Reason string
}
