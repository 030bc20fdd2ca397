package mdns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hashicorp/mdns"
	"github.com/miekg/dns"
	"go.uber.org/multierr"

	"github.com/IFIR649/react-pc-mobile/internal/util/addrutil"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// maxTXTLen 单条 TXT 记录的最大长度
const maxTXTLen = 255

// responder 正在应答查询的 mDNS 服务
type responder interface {
	Shutdown() error
}

// ResponderFactory 创建 mDNS 应答器
type ResponderFactory func(cfg *mdns.Config) (responder, error)

func newMDNSServer(cfg *mdns.Config) (responder, error) {
	return mdns.NewServer(cfg)
}

// Advertiser 服务端广播发布器
type Advertiser struct {
	cfg AdvertiserConfig
	ad  types.ServiceAdvertisement

	newResponder ResponderFactory
	sendGoodbye  GoodbyeSender
	localIPs     func(addrutil.Filter) ([]net.IP, error)
	port         PortSource

	mu      sync.Mutex
	server  responder
	service *mdns.MDNSService
	iface   *net.Interface
}

// PortSource 在启动时提供实际监听端口
type PortSource interface {
	Port() int
}

// AdvertiserOption 广播选项
type AdvertiserOption func(*Advertiser)

// WithResponderFactory 替换应答器实现
func WithResponderFactory(f ResponderFactory) AdvertiserOption {
	return func(a *Advertiser) { a.newResponder = f }
}

// WithGoodbyeSender 替换告别报文发送实现
func WithGoodbyeSender(s GoodbyeSender) AdvertiserOption {
	return func(a *Advertiser) { a.sendGoodbye = s }
}

// WithLocalIPs 替换本机地址枚举
func WithLocalIPs(f func(addrutil.Filter) ([]net.IP, error)) AdvertiserOption {
	return func(a *Advertiser) { a.localIPs = f }
}

// WithPortSource 启动时从 ps 读取端口，覆盖 ServiceAdvertisement.Port
func WithPortSource(ps PortSource) AdvertiserOption {
	return func(a *Advertiser) { a.port = ps }
}

// NewAdvertiser 创建广播发布器
func NewAdvertiser(ad types.ServiceAdvertisement, cfg AdvertiserConfig, opts ...AdvertiserOption) (*Advertiser, error) {
	if ad.ServiceType == "" {
		return nil, fmt.Errorf("%w: empty service type", ErrInvalidConfig)
	}
	if ad.Port < 0 || ad.Port > 65535 {
		return nil, fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, ad.Port)
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultAdvertiserConfig().Domain
	}
	if cfg.Scheme == "" {
		cfg.Scheme = types.SchemeHTTP
	}

	a := &Advertiser{
		cfg:          cfg,
		ad:           ad,
		newResponder: newMDNSServer,
		sendGoodbye:  sendMulticastGoodbye,
		localIPs:     addrutil.LocalIPv4s,
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Start 注册服务并开始应答查询
func (a *Advertiser) Start(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		return ErrAlreadyStarted
	}

	port := a.ad.Port
	if a.port != nil {
		port = a.port.Port()
	}
	if port <= 0 || port > 65535 {
		return &MDNSError{Op: "advertise", Err: fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, port)}
	}

	ips, err := a.resolveIPs()
	if err != nil {
		return &MDNSError{Op: "advertise", Err: err}
	}

	name := a.ad.Name
	if name == "" {
		name = "pclink"
	}
	instance := instanceFor(name)

	addrs := addrutil.Strings(ips)
	txt := buildTXT(a.ad.Metadata, name, a.cfg.Scheme, addrs)

	host := a.cfg.HostName
	if host != "" {
		host = dns.Fqdn(host)
	}
	svc, err := mdns.NewMDNSService(instance, a.ad.ServiceType, dns.Fqdn(a.cfg.Domain), host, port, ips, txt)
	if err != nil {
		return &MDNSError{Op: "advertise", Err: err}
	}

	mc := &mdns.Config{Zone: svc}
	if a.cfg.Interface != "" {
		iface, err := net.InterfaceByName(a.cfg.Interface)
		if err != nil {
			log.Warn("找不到指定网卡", "interface", a.cfg.Interface, "err", err)
		} else {
			mc.Iface = iface
		}
	}

	server, err := a.newResponder(mc)
	if err != nil {
		return &MDNSError{Op: "advertise", Err: err}
	}

	a.server = server
	a.service = svc
	a.iface = mc.Iface

	log.Info("开始广播服务",
		"instance", instance,
		"service", a.ad.ServiceType,
		"port", port,
		"ips", addrs)
	return nil
}

// Stop 停止应答并发送告别报文
func (a *Advertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return nil
	}

	var errs error
	if err := a.server.Shutdown(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("shutdown responder: %w", err))
	}
	if err := a.sendGoodbye(buildGoodbye(a.service), a.iface); err != nil {
		errs = multierr.Append(errs, err)
	}

	log.Info("已撤销服务广播", "instance", a.service.Instance, "err", errs)
	a.server = nil
	a.service = nil
	a.iface = nil
	return errs
}

// Instance 返回当前广播的实例名，未启动时为空
func (a *Advertiser) Instance() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.service == nil {
		return ""
	}
	return a.service.Instance
}

// resolveIPs 确定广播地址：配置 > 局域网 IPv4 > 任意 IPv4
func (a *Advertiser) resolveIPs() ([]net.IP, error) {
	if len(a.cfg.IPs) > 0 {
		var ips []net.IP
		for _, s := range a.cfg.IPs {
			if ip, ok := addrutil.ParseIPv4(s); ok {
				ips = append(ips, ip)
			}
		}
		if len(ips) == 0 {
			return nil, ErrNoValidAddresses
		}
		return ips, nil
	}

	ips, err := a.localIPs(addrutil.Filter{Interface: a.cfg.Interface, LANOnly: true})
	if err != nil {
		return nil, err
	}
	if len(ips) > 0 {
		return ips, nil
	}

	ips, err = a.localIPs(addrutil.Filter{Interface: a.cfg.Interface})
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, ErrNoValidAddresses
	}
	return ips, nil
}

// instanceFor 生成实例名，附加随机后缀避免同名冲突
func instanceFor(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '.', '\\':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	return clean + "-" + uuid.NewString()[:8]
}

// buildTXT 构造 TXT 记录
//
// 保留键 name/scheme/addrs 覆盖用户元数据；地址超过单条长度时拆为多条 addrs=。
func buildTXT(metadata map[string]string, name, scheme string, addrs []string) []string {
	md := make(map[string]string, len(metadata)+2)
	for k, v := range metadata {
		k = strings.ToLower(k)
		if k == types.TXTKeyAddrs {
			continue
		}
		md[k] = v
	}
	md[types.TXTKeyName] = name
	md[types.TXTKeyScheme] = scheme

	txt := types.ServiceAdvertisement{Metadata: md}.TXT()
	for i, r := range txt {
		if len(r) > maxTXTLen {
			txt[i] = truncate(r, maxTXTLen)
		}
	}

	prefix := types.TXTKeyAddrs + "="
	cur := prefix
	for _, addr := range addrs {
		if cur != prefix && len(cur)+1+len(addr) > maxTXTLen {
			txt = append(txt, cur)
			cur = prefix
		}
		if cur != prefix {
			cur += ","
		}
		cur += addr
	}
	if cur != prefix {
		txt = append(txt, cur)
	}
	return txt
}

// truncate 截断到 n 字节以内，不拆开多字节字符
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
