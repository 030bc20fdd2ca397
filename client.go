package pclink

import (
	"context"
	"sync"

	"github.com/IFIR649/react-pc-mobile/internal/app"
	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/itemsclient"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// Client 移动端客户端
//
// Client 持有连接状态机与记录 API 客户端。状态查询在 Start 之前即可使用，
// 命令类方法（SubmitCode/Forget/Reconnect）需要先 Start。
type Client struct {
	bootstrap *app.Bootstrap
	rt        *app.Runtime

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewClient 创建客户端（不启动）
func NewClient(opts ...Option) (*Client, error) {
	o, cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	bopts := []app.BootstrapOption{app.WithConfig(cfg)}
	if o.discovery != nil {
		bopts = append(bopts, app.WithDiscovery(o.discovery))
	}
	if o.clock != nil {
		bopts = append(bopts, app.WithClock(o.clock))
	}

	b := app.NewBootstrap(config.RoleClient, bopts...)
	rt, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Client{bootstrap: b, rt: rt}, nil
}

// Start 打开存储并开始第一轮查找
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}
	if _, err := c.bootstrap.Start(ctx); err != nil {
		return err
	}
	c.started = true
	return nil
}

// Stop 停止查找并关闭存储
//
// 未连接时停止，状态进入 Failed。
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if !c.started {
		return nil
	}
	return c.rt.Stop(ctx)
}

// ============================================================================
//                              连接状态
// ============================================================================

// State 返回当前连接状态
func (c *Client) State() types.ConnectionState {
	return c.rt.Reconciler.State()
}

// Status 返回状态栏文案
func (c *Client) Status() string {
	return c.rt.Reconciler.Status()
}

// Current 返回已连接的地址
func (c *Client) Current() (types.Endpoint, bool) {
	return c.rt.Reconciler.Current()
}

// Subscribe 订阅状态变化，调用返回的函数取消订阅
func (c *Client) Subscribe() (<-chan types.ConnectionState, func()) {
	return c.rt.Reconciler.Subscribe()
}

// SubmitCode 提交配对码
//
// 配对码无效时返回 ErrInvalidCode，已连接时返回 ErrAlreadyConnected。
func (c *Client) SubmitCode(ctx context.Context, payload []byte) error {
	return c.rt.Reconciler.SubmitCode(ctx, payload)
}

// Forget 忘记服务端，清除保存的地址并回到 Idle
func (c *Client) Forget(ctx context.Context) error {
	return c.rt.Reconciler.Forget(ctx)
}

// Reconnect 在 Idle/Failed 状态下重新开始查找
func (c *Client) Reconnect(ctx context.Context) error {
	return c.rt.Reconciler.Reconnect(ctx)
}

// ============================================================================
//                              记录
// ============================================================================

// Items 返回记录 API 客户端，请求发往当前已连接的地址
func (c *Client) Items() *itemsclient.Client {
	return c.rt.Items
}

// MetricsAddr 返回指标监听地址，未开启时为空
func (c *Client) MetricsAddr() string {
	if c.rt.MetricsServer == nil {
		return ""
	}
	return c.rt.MetricsServer.Addr()
}
