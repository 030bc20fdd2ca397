// Package main 提供 pclink 服务端命令行入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	pclink "github.com/IFIR649/react-pc-mobile"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
)

var log = logger.Logger("cmd/server")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
// 命令行参数只覆盖「这次运行」，持久化配置放在 -config 指定的文件里，
// 或使用 PCLINK_* 环境变量。
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径")
	port        = flag.Int("port", 0, "监听端口（0 = 使用配置，默认 4310）")
	host        = flag.String("host", "", "监听主机（默认所有网卡）")
	name        = flag.String("name", "", "服务端名称（默认主机名）")
	dataDir     = flag.String("data-dir", "", "数据目录")
	noAdvertise = flag.Bool("no-advertise", false, "不通过 mDNS 广播")
	logFile     = flag.String("log", "", "日志文件路径")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(pclink.VersionInfo())
		return nil
	}

	srv, err := pclink.NewServer(buildOptions()...)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("启动 pclink 服务端", "version", pclink.Version, "commit", pclink.GitCommit)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	if err := printServerInfo(srv); err != nil {
		log.Warn("生成配对码失败", "err", err)
	}

	fmt.Println("服务端已启动，按 Ctrl+C 退出")
	<-ctx.Done()

	fmt.Println("\n正在关闭服务端...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(stopCtx)
}

// buildOptions 构建选项
//
// 优先级：命令行参数 > 环境变量 > 配置文件 > 默认值
func buildOptions() []pclink.Option {
	var opts []pclink.Option
	if *configFile != "" {
		opts = append(opts, pclink.WithConfigFile(*configFile))
	}
	if *port != 0 {
		opts = append(opts, pclink.WithPort(*port))
	}
	if *host != "" {
		opts = append(opts, pclink.WithHost(*host))
	}
	if *name != "" {
		opts = append(opts, pclink.WithName(*name))
	}
	if *dataDir != "" {
		opts = append(opts, pclink.WithDataDir(*dataDir))
	}
	if *noAdvertise {
		opts = append(opts, pclink.WithAdvertise(false))
	}
	if *logFile != "" {
		opts = append(opts, pclink.WithLogFile(*logFile))
	}
	return opts
}

// printServerInfo 打印地址与配对码
func printServerInfo(srv *pclink.Server) error {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("名称: %s\n", srv.Name())
	fmt.Printf("监听: %s\n", srv.Addr())
	if inst := srv.Instance(); inst != "" {
		fmt.Printf("广播: %s\n", inst)
	} else {
		fmt.Println("广播: 未启用")
	}

	urls := srv.URLs()
	if len(urls) == 0 {
		fmt.Println("未找到可用的局域网地址")
		fmt.Println("═══════════════════════════════════════════════════════════")
		return nil
	}

	fmt.Println("地址:")
	for _, u := range urls {
		fmt.Printf("  %s\n", u)
	}

	codes, err := srv.Codes()
	if err != nil {
		fmt.Println("═══════════════════════════════════════════════════════════")
		return err
	}
	fmt.Println("配对码（在客户端粘贴其中一行）:")
	for _, c := range codes {
		fmt.Printf("  %s\n", c)
	}
	fmt.Println("═══════════════════════════════════════════════════════════")
	return nil
}
