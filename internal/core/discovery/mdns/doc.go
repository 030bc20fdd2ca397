// Package mdns 实现基于 DNS-SD/mDNS 的局域网服务发现与广播
//
// Browser 在客户端按固定间隔发起查询，把应答转换为去重后的候选地址；
// Advertiser 在服务端注册服务，停止时发送 TTL=0 的告别报文撤销广播。
//
// # 地址选择
//
// 一条广播可能携带多个地址。按以下顺序收集：TXT 中的 addrs=（发布方顺序）、
// A 记录、应答源地址、AAAA 记录；取第一个合法 IPv4，没有则丢弃该广播。
//
// # 错误
//
// 查询失败视为整个发现通道终止：候选通道关闭，Err() 返回包装
// types.ErrDiscoveryUnavailable 的错误，不会对单个候选报错。
package mdns
