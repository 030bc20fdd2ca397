// Package pclink 让局域网内的移动端客户端自动找到并连接 PC 服务端
//
// # 核心概念
//
//   - Server: PC 端，提供记录 HTTP API，并通过 mDNS 广播自己的地址
//   - Client: 移动端，维护一条连接状态机，按“上次地址 → 组播发现 → 配对码”找到服务端
//   - 配对码: 服务端生成的 JSON 负载（二维码或手动输入），用于组播不可用的网络
//
// 客户端只有在 GET {endpoint}/health 返回 200 且响应体含 ok=true 时才进入已连接状态，
// 成功的地址会被保存，下次启动优先尝试。
//
// # 快速开始
//
//	// 服务端
//	srv, err := pclink.NewServer(pclink.WithName("Office PC"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Stop(context.Background())
//	codes, _ := srv.Codes()
//
//	// 客户端
//	cli, err := pclink.NewClient()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cli.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer cli.Stop(context.Background())
//
//	states, cancel := cli.Subscribe()
//	defer cancel()
//	for s := range states {
//	    fmt.Println(s.Status())
//	}
//
// # 状态文案
//
// 状态栏只会出现四种文案：
//
//   - "Searching for server..."
//   - "Validating server..."
//   - "Connected to <endpoint>"
//   - "Not connected. Try the pairing code."
//
// # 配置
//
// 配置按 默认值 < 配置文件 < .env < PCLINK_* 环境变量 的优先级加载，
// 再由 Option 覆盖。
package pclink
