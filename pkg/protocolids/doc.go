// Package protocolids 定义 pclink 客户端与服务端共享的协议常量。
//
// 本包是服务类型和 HTTP 路径的唯一来源。客户端和服务端必须引用同一组常量，
// 服务类型不一致时组播发现会静默失败。
package protocolids
