package interfaces

import (
	"context"

	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// Discovery 局域网组播发现
type Discovery interface {
	// Start 开始浏览指定服务类型，返回的句柄在 Stop 前持续产出候选
	Start(ctx context.Context, serviceType string) (DiscoveryHandle, error)
}

// DiscoveryHandle 一次发现会话
type DiscoveryHandle interface {
	// Candidates 按到达顺序输出去重后的候选；监听器出错或 Stop 后关闭
	Candidates() <-chan types.Candidate

	// Err 通道关闭后返回终止原因，正常停止时为 nil
	Err() error

	// Stop 释放监听器，可重复调用，返回时后台协程已退出
	Stop()
}
