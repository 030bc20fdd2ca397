// Package main 提供 pclink 客户端命令行入口
//
// 启动后自动查找服务端，并在标准输入上接受命令：
//
//	status              显示当前状态
//	code <payload>      提交配对码
//	forget              忘记服务端
//	reconnect           重新查找
//	list                列出记录
//	add <title>         新建记录
//	edit <id> <title>   修改记录
//	rm <id>             删除记录
//	quit                退出
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	pclink "github.com/IFIR649/react-pc-mobile"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
)

var log = logger.Logger("cmd/client")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径")
	dataDir     = flag.String("data-dir", "", "数据目录")
	code        = flag.String("code", "", "启动后立即提交的配对码")
	forget      = flag.Bool("forget", false, "启动前忘记已保存的服务端")
	metricsAddr = flag.String("metrics", "", "指标监听地址，例如 127.0.0.1:9310")
	logFile     = flag.String("log", "", "日志文件路径")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

var errQuit = errors.New("quit")

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

	cli, err := pclink.NewClient(buildOptions()...)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("启动 pclink 客户端", "version", pclink.Version)
	if err := cli.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := cli.Stop(stopCtx); err != nil {
			log.Warn("关闭客户端失败", "err", err)
		}
	}()

	if *forget {
		if err := cli.Forget(ctx); err != nil {
			log.Warn("清除保存的地址失败", "err", err)
		}
		if err := cli.Reconnect(ctx); err != nil {
			return err
		}
	}
	if *code != "" {
		if err := cli.SubmitCode(ctx, []byte(*code)); err != nil {
			fmt.Printf("配对码无效: %v\n", err)
		}
	}
	if addr := cli.MetricsAddr(); addr != "" {
		fmt.Printf("指标: http://%s/metrics\n", addr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watchStatus(gctx, cli)
	})
	g.Go(func() error {
		return readCommands(gctx, cli, os.Stdin)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func buildOptions() []pclink.Option {
	var opts []pclink.Option
	if *configFile != "" {
		opts = append(opts, pclink.WithConfigFile(*configFile))
	}
	if *dataDir != "" {
		opts = append(opts, pclink.WithDataDir(*dataDir))
	}
	if *metricsAddr != "" {
		opts = append(opts, pclink.WithMetricsAddr(*metricsAddr))
	}
	if *logFile != "" {
		opts = append(opts, pclink.WithLogFile(*logFile))
	}
	return opts
}

// watchStatus 状态文案变化时打印
func watchStatus(ctx context.Context, cli *pclink.Client) error {
	states, cancel := cli.Subscribe()
	defer cancel()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-states:
			if !ok {
				return nil
			}
			if status := s.Status(); status != last {
				fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), status)
				last = status
			}
		}
	}
}

// readCommands 读取标准输入命令
//
// 读取在独立协程中进行，ctx 取消后立即返回，不等待下一行输入。
func readCommands(ctx context.Context, cli *pclink.Client, r io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if err := execute(ctx, cli, strings.TrimSpace(line)); err != nil {
				if errors.Is(err, errQuit) {
					return err
				}
				fmt.Printf("错误: %v\n", err)
			}
		}
	}
}

func execute(ctx context.Context, cli *pclink.Client, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cmd {
	case "":
		return nil
	case "status":
		fmt.Println(cli.Status())
	case "code":
		return cli.SubmitCode(reqCtx, []byte(arg))
	case "forget":
		return cli.Forget(reqCtx)
	case "reconnect":
		return cli.Reconnect(reqCtx)
	case "list":
		items, err := cli.Items().List(reqCtx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("(空)")
		}
		for _, it := range items {
			fmt.Printf("%s  %s  %s\n", it.ID, it.UpdatedAt.Local().Format("01-02 15:04"), it.Title)
		}
	case "add":
		it, err := cli.Items().Create(reqCtx, arg)
		if err != nil {
			return err
		}
		fmt.Printf("已创建 %s\n", it.ID)
	case "edit":
		id, title, _ := strings.Cut(arg, " ")
		if _, err := cli.Items().Update(reqCtx, id, strings.TrimSpace(title)); err != nil {
			return err
		}
		fmt.Println("已修改")
	case "rm":
		if err := cli.Items().Delete(reqCtx, arg); err != nil {
			return err
		}
		fmt.Println("已删除")
	case "quit", "exit":
		return errQuit
	default:
		fmt.Printf("未知命令 %q\n", cmd)
	}
	return nil
}
