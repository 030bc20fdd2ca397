package interfaces

import (
	"context"
	"time"

	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// Prober 候选地址存活探测
//
// 网络不可达、非 200 响应、响应体缺少成功标记以及超时都返回 Alive=false 的结果，
// 不返回错误；error 只用于调用方传入非法参数。
type Prober interface {
	Probe(ctx context.Context, ep types.Endpoint, timeout time.Duration) (types.HealthResult, error)
}
