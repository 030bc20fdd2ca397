package addrutil

import (
	"net"
	"sort"
	"strings"
)

// virtualInterfacePrefixes 虚拟网卡前缀（VPN、容器、虚拟机）
var virtualInterfacePrefixes = []string{
	"utun", "ipsec", "awdl", "llw", "bridge",
	"docker", "br-", "veth", "virbr", "vboxnet", "vmnet",
	"tun", "tap", "dummy", "tailscale", "wg", "zt",
}

// IsVirtualInterface 判断网卡是否为虚拟网卡
func IsVirtualInterface(name string) bool {
	name = strings.ToLower(name)
	for _, p := range virtualInterfacePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Filter 本机地址过滤条件
type Filter struct {
	// Interface 只使用指定网卡
	Interface string

	// LANOnly 只保留局域网地址并跳过虚拟网卡
	LANOnly bool
}

// Iface 一块网卡的名称、状态与地址
type Iface struct {
	Name  string
	Flags net.Flags
	Addrs []net.Addr
}

// LocalIPv4s 返回本机处于 up 状态的非回环 IPv4，按 ScoreLAN 降序
func LocalIPv4s(f Filter) ([]net.IP, error) {
	sys, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	ifaces := make([]Iface, 0, len(sys))
	for _, i := range sys {
		addrs, err := i.Addrs()
		if err != nil {
			continue
		}
		ifaces = append(ifaces, Iface{Name: i.Name, Flags: i.Flags, Addrs: addrs})
	}
	return SelectIPv4s(ifaces, f), nil
}

// SelectIPv4s 从网卡列表中挑选 IPv4
func SelectIPv4s(ifaces []Iface, f Filter) []net.IP {
	type scored struct {
		ip    net.IP
		score int
	}
	var out []scored
	seen := make(map[string]bool)

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if f.Interface != "" && iface.Name != f.Interface {
			continue
		}
		if f.LANOnly && IsVirtualInterface(iface.Name) {
			continue
		}
		for _, a := range iface.Addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			ip4 := ip.To4()
			if ip4 == nil || ip4.IsLoopback() || !IsUsableIPv4(ip4) {
				continue
			}
			score := ScoreLAN(ip4)
			if f.LANOnly && score == 0 {
				continue
			}
			if seen[ip4.String()] {
				continue
			}
			seen[ip4.String()] = true
			out = append(out, scored{ip: ip4, score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	ips := make([]net.IP, len(out))
	for i, s := range out {
		ips[i] = s.ip
	}
	return ips
}

// Strings 把 IP 列表转为字符串
func Strings(ips []net.IP) []string {
	out := make([]string, len(ips))
	for i, ip := range ips {
		out[i] = ip.String()
	}
	return out
}
