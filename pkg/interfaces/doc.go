// Package interfaces 定义 pclink 各组件之间的契约
//
//   - storage.go   - EndpointStore 持久化最近一次成功连接的地址
//   - liveness.go  - Prober 候选地址存活探测
//   - discovery.go - Discovery 局域网组播发现
//
// 连接状态机只依赖这些接口，测试时以内存实现替换。
package interfaces
