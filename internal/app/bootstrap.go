// Package app 提供 pclink 应用编排层
//
// app 包负责：
// - 按角色（客户端/服务端）组装 fx 模块
// - 依赖注入协调
// - 生命周期管理
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
)

var log = logger.Logger("app")

// Bootstrap 应用引导程序
//
// Bootstrap 负责：
// - 校验配置
// - 组装 fx 模块
// - 管理应用生命周期
type Bootstrap struct {
	config    *config.Config
	role      string
	discovery interfaces.Discovery
	clock     clock.Clock
	extra     []fx.Option
	opts      BuildOptions

	fxApp   *fx.App
	runtime *Runtime
	logFile *os.File
}

// NewBootstrap 创建引导程序
//
// role 为 config.RoleClient 或 config.RoleServer。
func NewBootstrap(role string, opts ...BootstrapOption) *Bootstrap {
	b := &Bootstrap{
		role: role,
		opts: DefaultBuildOptions(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.config == nil {
		b.config = config.NewConfig()
	}
	return b
}

// Build 组装运行时（不启动）
func (b *Bootstrap) Build() (*Runtime, error) {
	if b.runtime != nil {
		return b.runtime, nil
	}
	if b.role != config.RoleClient && b.role != config.RoleServer {
		return nil, fmt.Errorf("app: unknown role %q", b.role)
	}
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}

	// 日志配置必须在所有模块初始化之前
	if err := b.setupLogging(); err != nil {
		return nil, fmt.Errorf("设置日志失败: %w", err)
	}

	rt := &Runtime{Role: b.role, Config: b.config, stop: b.Stop}

	b.fxApp = fx.New(
		fx.Options(b.setupModules(rt)...),
		fx.WithLogger(b.fxEventLogger),
	)
	if err := b.fxApp.Err(); err != nil {
		b.closeLogFile()
		return nil, fmt.Errorf("组装模块失败: %w", err)
	}

	b.runtime = rt
	return rt, nil
}

// Start 组装并启动运行时
func (b *Bootstrap) Start(ctx context.Context) (*Runtime, error) {
	rt, err := b.Build()
	if err != nil {
		return nil, err
	}

	startCtx, cancel := context.WithTimeout(ctx, b.opts.StartTimeout)
	defer cancel()

	if err := b.fxApp.Start(startCtx); err != nil {
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}
	log.Info("应用已启动", "role", b.role)
	return rt, nil
}

// Stop 停止应用
func (b *Bootstrap) Stop(ctx context.Context) error {
	if b.fxApp == nil {
		return nil
	}

	stopCtx, cancel := context.WithTimeout(ctx, b.opts.StopTimeout)
	defer cancel()

	err := b.fxApp.Stop(stopCtx)
	log.Info("应用已停止", "role", b.role)
	b.closeLogFile()
	return err
}

// setupModules 按角色组装 fx 模块
func (b *Bootstrap) setupModules(rt *Runtime) []fx.Option {
	modules := []fx.Option{
		fx.Supply(b.config),
		FoundationModules(b.role),
	}
	if b.clock != nil {
		c := b.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return c }))
	}

	switch b.role {
	case config.RoleClient:
		modules = append(modules, b.setupClientLayer(rt)...)
	case config.RoleServer:
		modules = append(modules,
			ServerModules(),
			fx.Populate(&rt.API, &rt.Advertiser),
		)
	}

	return append(modules, b.extra...)
}

// setupClientLayer 客户端模块
func (b *Bootstrap) setupClientLayer(rt *Runtime) []fx.Option {
	modules := []fx.Option{ClientModules()}

	if b.discovery != nil {
		d := b.discovery
		modules = append(modules, fx.Provide(func() interfaces.Discovery { return d }))
	} else {
		modules = append(modules, DiscoveryModule())
	}

	if addr := b.config.Client.MetricsAddr; addr != "" {
		modules = append(modules,
			MetricsEndpointModule(addr),
			fx.Populate(&rt.MetricsServer),
		)
	}

	return append(modules, fx.Populate(&rt.Reconciler, &rt.Items))
}

// fxEventLogger fx 事件日志，只在 app 子系统开启 debug 时输出
func (b *Bootstrap) fxEventLogger() fxevent.Logger {
	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}
	zl, err := zap.NewDevelopment()
	if err != nil {
		return &fxevent.ZapLogger{Logger: zap.NewNop()}
	}
	return &fxevent.ZapLogger{Logger: zl.Named("fx")}
}

// setupLogging 配置日志输出
//
// 如果指定了 LogFile，将所有日志重定向到文件
func (b *Bootstrap) setupLogging() error {
	if b.config.LogFile == "" || b.logFile != nil {
		return nil
	}

	file, err := os.OpenFile(b.config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	b.logFile = file
	logger.SetOutput(file)
	log.Info("日志文件初始化成功", "path", b.config.LogFile)
	return nil
}

func (b *Bootstrap) closeLogFile() {
	if b.logFile == nil {
		return
	}
	logger.SetOutput(os.Stderr)
	_ = b.logFile.Close()
	b.logFile = nil
}
