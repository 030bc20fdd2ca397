package mdns

import (
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/IFIR649/react-pc-mobile/internal/util/addrutil"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// candidateFromEntry 将 mDNS 应答转换为候选地址
//
// 地址优先级：TXT addrs=（发布方顺序）> AddrV4 > Addr > AddrV6，
// 取第一个合法 IPv4。没有可用地址或端口为 0 时返回 false。
func candidateFromEntry(e *mdns.ServiceEntry, now time.Time) (types.Candidate, bool) {
	if e == nil || e.Port <= 0 || e.Port > 65535 {
		return types.Candidate{}, false
	}

	md := types.ParseTXT(e.InfoFields)

	ip, ok := addrutil.FirstIPv4(entryAddrs(e))
	if !ok {
		return types.Candidate{}, false
	}

	scheme := strings.ToLower(strings.TrimSpace(md[types.TXTKeyScheme]))
	if scheme == "" {
		scheme = types.SchemeHTTP
	}

	ep, err := types.NewEndpoint(scheme, ip.String(), e.Port)
	if err != nil {
		log.Debug("丢弃无效应答", "instance", e.Name, "scheme", scheme, "err", err)
		return types.Candidate{}, false
	}

	name := md[types.TXTKeyName]
	if name == "" {
		name = instanceName(e.Name)
	}

	return types.Candidate{
		Endpoint:     ep,
		Source:       types.SourceDiscovered,
		DiscoveredAt: now,
		Name:         name,
	}, true
}

// entryAddrs 按优先级收集应答中的地址
func entryAddrs(e *mdns.ServiceEntry) []string {
	var out []string
	for _, f := range e.InfoFields {
		k, v, found := strings.Cut(f, "=")
		if !found || !strings.EqualFold(strings.TrimSpace(k), types.TXTKeyAddrs) {
			continue
		}
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				out = append(out, a)
			}
		}
	}
	for _, ip := range []net.IP{e.AddrV4, e.Addr, e.AddrV6} {
		if ip != nil {
			out = append(out, ip.String())
		}
	}
	return out
}

// instanceName 从 "<instance>.<service>.<domain>" 中取出实例名
func instanceName(fqdn string) string {
	name, _, _ := strings.Cut(fqdn, ".")
	return strings.ReplaceAll(name, `\ `, " ")
}
