// Package types 定义 pclink 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 pclink 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - endpoint.go      - Endpoint 服务端地址（scheme://host:port）
//   - candidate.go     - Candidate 待验证的候选地址及其来源
//   - state.go         - ConnectionState 连接状态机的状态值
//   - health.go        - HealthResult 存活探测结果
//   - advertisement.go - ServiceAdvertisement 局域网服务广播
//   - server.go        - ServerInfo / Item 服务端 HTTP 负载
//   - errors.go        - 公共错误定义
package types
