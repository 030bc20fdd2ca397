package mdns

import (
	"fmt"
	"net"
	"strings"

	"github.com/hashicorp/mdns"
	"github.com/miekg/dns"
	"golang.org/x/net/ipv4"
)

// mdnsGroupIPv4 mDNS 组播地址
var mdnsGroupIPv4 = &net.UDPAddr{IP: net.IPv4(224, 0, 0, 251), Port: 5353}

// GoodbyeSender 发送告别报文
type GoodbyeSender func(msg *dns.Msg, iface *net.Interface) error

// buildGoodbye 构造撤销广播的应答报文
//
// 与注册时相同的 PTR/SRV/TXT/A 记录，TTL 为 0。
func buildGoodbye(svc *mdns.MDNSService) *dns.Msg {
	serviceAddr := fmt.Sprintf("%s.%s.", trimDot(svc.Service), trimDot(svc.Domain))
	instanceAddr := fmt.Sprintf("%s.%s", trimDot(svc.Instance), serviceAddr)
	host := dns.Fqdn(svc.HostName)

	msg := new(dns.Msg)
	msg.Response = true
	msg.Authoritative = true

	msg.Answer = append(msg.Answer,
		&dns.PTR{
			Hdr: dns.RR_Header{Name: serviceAddr, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 0},
			Ptr: instanceAddr,
		},
		&dns.SRV{
			Hdr:    dns.RR_Header{Name: instanceAddr, Rrtype: dns.TypeSRV, Class: dns.ClassINET, Ttl: 0},
			Port:   uint16(svc.Port),
			Target: host,
		},
		&dns.TXT{
			Hdr: dns.RR_Header{Name: instanceAddr, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 0},
			Txt: svc.TXT,
		},
	)
	for _, ip := range svc.IPs {
		ip4 := ip.To4()
		if ip4 == nil {
			continue
		}
		msg.Answer = append(msg.Answer, &dns.A{
			Hdr: dns.RR_Header{Name: host, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 0},
			A:   ip4,
		})
	}
	return msg
}

// sendMulticastGoodbye 将报文发送到 224.0.0.251:5353
func sendMulticastGoodbye(msg *dns.Msg, iface *net.Interface) error {
	buf, err := msg.Pack()
	if err != nil {
		return fmt.Errorf("pack goodbye: %w", err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return fmt.Errorf("listen udp4: %w", err)
	}
	defer conn.Close()

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(255); err != nil {
		return fmt.Errorf("set multicast ttl: %w", err)
	}
	if iface != nil {
		if err := pc.SetMulticastInterface(iface); err != nil {
			return fmt.Errorf("set multicast interface: %w", err)
		}
	}
	if _, err := pc.WriteTo(buf, nil, mdnsGroupIPv4); err != nil {
		return fmt.Errorf("send goodbye: %w", err)
	}
	return nil
}

func trimDot(s string) string {
	return strings.Trim(s, ".")
}
