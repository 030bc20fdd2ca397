// Package api 提供服务端 HTTP 接口
//
// 路由：
//
//	GET    /health        存活探测，{"ok":true,"time":...}
//	GET    /server-info   服务端名称、端口与所有局域网 URL
//	GET    /items         记录列表
//	POST   /items         新建记录
//	PUT    /items/{id}    修改记录
//	DELETE /items/{id}    删除记录
//	GET    /metrics       Prometheus 指标
//
// 除 /health 外的请求经过令牌桶限速，超出时返回 429。
package api
