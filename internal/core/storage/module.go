// Package storage 组装 pclink 的持久化存储
//
// 客户端与服务端各自打开一个 BadgerDB（${DataDir}/<role>/db），
// 组件通过 kv.Store 以不同前缀共享同一个引擎。
package storage

import (
	"context"

	"go.uber.org/fx"

	"github.com/IFIR649/react-pc-mobile/internal/config"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine"
	"github.com/IFIR649/react-pc-mobile/internal/core/storage/engine/badger"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
)

var log = logger.Logger("storage")

// Params Storage 模块依赖参数
type Params struct {
	fx.In

	Config *config.Config `optional:"true"`
}

// Result Storage 模块提供的结果
type Result struct {
	fx.Out

	Engine engine.Engine
}

// Module 返回指定角色（config.RoleClient / config.RoleServer）的 Storage 模块
//
// 生命周期:
//   - OnStart: 启动引擎后台任务
//   - OnStop: 关闭引擎
func Module(role string) fx.Option {
	return fx.Module("storage",
		fx.Provide(func(p Params) (Result, error) {
			return ProvideStorage(p, role)
		}),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideStorage 打开存储引擎
func ProvideStorage(p Params, role string) (Result, error) {
	ec, err := EngineConfig(p.Config, role)
	if err != nil {
		return Result{}, err
	}
	eng, err := Open(ec)
	if err != nil {
		return Result{}, err
	}
	return Result{Engine: eng}, nil
}

// Open 根据引擎配置打开 BadgerDB
func Open(ec *engine.Config) (engine.Engine, error) {
	log.Debug("打开存储引擎", "path", ec.Path, "encrypted", len(ec.EncryptionKey) > 0)
	eng, err := badger.New(ec)
	if err != nil {
		log.Error("打开存储引擎失败", "path", ec.Path, "err", err)
		return nil, err
	}
	return eng, nil
}

func registerLifecycle(lc fx.Lifecycle, eng engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return eng.Start()
		},
		OnStop: func(_ context.Context) error {
			if err := eng.Close(); err != nil {
				log.Warn("关闭存储引擎失败", "err", err)
				return err
			}
			log.Debug("存储引擎已关闭")
			return nil
		},
	})
}
