// Package addrutil 提供局域网 IPv4 地址工具
package addrutil

import (
	"net"
	"strings"
)

// ============================================================================
//                              IP 类型判断工具
// ============================================================================

// nonRoutableCIDRs 局域网跨机通常不可达的地址段（VPN、CGNAT、测试网段）
var nonRoutableCIDRs = mustParseCIDRs(
	"198.18.0.0/15",   // RFC 2544，常被代理软件使用
	"198.51.100.0/24", // RFC 5737
	"203.0.113.0/24",  // RFC 5737
	"100.64.0.0/10",   // RFC 6598 CGNAT / Tailscale
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		out = append(out, n)
	}
	return out
}

// ParseIPv4 解析 IPv4 字面量
//
// 只接受点分十进制，拒绝 IPv6、主机名、0.0.0.0、广播与组播地址。
func ParseIPv4(s string) (net.IP, bool) {
	s = strings.TrimSpace(s)
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	if strings.Contains(s, ":") {
		return nil, false
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, false
	}
	ip4 := ip.To4()
	if !IsUsableIPv4(ip4) {
		return nil, false
	}
	return ip4, true
}

// IsUsableIPv4 是否为可作为服务端地址的 IPv4
func IsUsableIPv4(ip net.IP) bool {
	ip4 := ip.To4()
	if ip4 == nil {
		return false
	}
	return !ip4.IsUnspecified() && !ip4.IsMulticast() && !ip4.Equal(net.IPv4bcast)
}

// FirstIPv4 按顺序返回第一个合法的 IPv4
func FirstIPv4(candidates []string) (net.IP, bool) {
	for _, c := range candidates {
		if ip, ok := ParseIPv4(c); ok {
			return ip, true
		}
	}
	return nil, false
}

// IsNonRoutable 是否属于 VPN/隧道/测试网段
func IsNonRoutable(ip net.IP) bool {
	for _, n := range nonRoutableCIDRs {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// AddrType 返回地址类型描述：loopback / private / link-local / non-routable / public
func AddrType(ip net.IP) string {
	switch {
	case ip == nil:
		return "invalid"
	case ip.IsLoopback():
		return "loopback"
	case IsNonRoutable(ip):
		return "non-routable"
	case ip.IsPrivate():
		return "private"
	case ip.IsLinkLocalUnicast():
		return "link-local"
	default:
		return "public"
	}
}

// ScoreLAN 对局域网 IPv4 评分，分数越高越适合广播；0 表示不适合
//
// 192.168.x.x > 10.x.x.x > 172.16-31.x.x > 169.254.x.x
func ScoreLAN(ip net.IP) int {
	ip4 := ip.To4()
	if ip4 == nil || ip4.IsLoopback() || !IsUsableIPv4(ip4) || IsNonRoutable(ip4) {
		return 0
	}
	switch {
	case ip4[0] == 192 && ip4[1] == 168:
		return 300
	case ip4[0] == 10:
		return 200
	case ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31:
		return 100
	case ip4.IsLinkLocalUnicast():
		return 10
	default:
		return 0
	}
}
