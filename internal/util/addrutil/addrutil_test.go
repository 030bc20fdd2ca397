package addrutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIPv4(t *testing.T) {
	valid := map[string]string{
		"192.168.1.50":      "192.168.1.50",
		" 10.0.0.2 ":        "10.0.0.2",
		"192.168.1.50:4310": "192.168.1.50",
		"8.8.8.8":           "8.8.8.8",
	}
	for in, want := range valid {
		ip, ok := ParseIPv4(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, ip.String())
	}

	for _, in := range []string{"", "fe80::1", "::ffff:10.0.0.1", "desk.local", "0.0.0.0", "224.0.0.251", "255.255.255.255", "300.1.1.1"} {
		_, ok := ParseIPv4(in)
		assert.False(t, ok, in)
	}
}

func TestFirstIPv4(t *testing.T) {
	ip, ok := FirstIPv4([]string{"fe80::1", "garbage", "10.0.0.7", "192.168.1.2"})
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.7", ip.String())

	_, ok = FirstIPv4([]string{"fe80::1", "host.local"})
	assert.False(t, ok)

	_, ok = FirstIPv4(nil)
	assert.False(t, ok)
}

func TestScoreLAN(t *testing.T) {
	assert.Greater(t, ScoreLAN(net.ParseIP("192.168.1.2")), ScoreLAN(net.ParseIP("10.0.0.2")))
	assert.Greater(t, ScoreLAN(net.ParseIP("10.0.0.2")), ScoreLAN(net.ParseIP("172.16.0.2")))
	assert.Greater(t, ScoreLAN(net.ParseIP("172.16.0.2")), ScoreLAN(net.ParseIP("169.254.1.1")))
	assert.Zero(t, ScoreLAN(net.ParseIP("100.100.1.1")))
	assert.Zero(t, ScoreLAN(net.ParseIP("8.8.8.8")))
	assert.Zero(t, ScoreLAN(net.ParseIP("127.0.0.1")))
	assert.Zero(t, ScoreLAN(net.ParseIP("fd00::1")))
}

func TestAddrType(t *testing.T) {
	assert.Equal(t, "loopback", AddrType(net.ParseIP("127.0.0.1")))
	assert.Equal(t, "private", AddrType(net.ParseIP("192.168.0.1")))
	assert.Equal(t, "link-local", AddrType(net.ParseIP("169.254.3.4")))
	assert.Equal(t, "non-routable", AddrType(net.ParseIP("100.64.0.1")))
	assert.Equal(t, "public", AddrType(net.ParseIP("1.1.1.1")))
	assert.Equal(t, "invalid", AddrType(nil))
}

func ipnet(s string) net.Addr {
	ip, n, _ := net.ParseCIDR(s)
	n.IP = ip
	return n
}

func TestSelectIPv4s(t *testing.T) {
	ifaces := []Iface{
		{Name: "lo", Flags: net.FlagUp | net.FlagLoopback, Addrs: []net.Addr{ipnet("127.0.0.1/8")}},
		{Name: "eth0", Flags: net.FlagUp, Addrs: []net.Addr{ipnet("10.0.0.5/24"), ipnet("fe80::1/64")}},
		{Name: "wlan0", Flags: net.FlagUp, Addrs: []net.Addr{ipnet("192.168.1.20/24")}},
		{Name: "docker0", Flags: net.FlagUp, Addrs: []net.Addr{ipnet("172.17.0.1/16")}},
		{Name: "eth1", Flags: 0, Addrs: []net.Addr{ipnet("192.168.9.9/24")}},
		{Name: "tailscale0", Flags: net.FlagUp, Addrs: []net.Addr{ipnet("100.101.1.1/32")}},
		{Name: "eth2", Flags: net.FlagUp, Addrs: []net.Addr{ipnet("203.0.114.7/24"), ipnet("10.0.0.5/24")}},
	}

	t.Run("全部非回环 IPv4", func(t *testing.T) {
		got := Strings(SelectIPv4s(ifaces, Filter{}))
		assert.Equal(t, []string{"192.168.1.20", "10.0.0.5", "172.17.0.1", "100.101.1.1", "203.0.114.7"}, got)
	})

	t.Run("仅局域网", func(t *testing.T) {
		got := Strings(SelectIPv4s(ifaces, Filter{LANOnly: true}))
		assert.Equal(t, []string{"192.168.1.20", "10.0.0.5"}, got)
	})

	t.Run("指定网卡", func(t *testing.T) {
		got := Strings(SelectIPv4s(ifaces, Filter{Interface: "eth0"}))
		assert.Equal(t, []string{"10.0.0.5"}, got)
	})
}

func TestIsVirtualInterface(t *testing.T) {
	assert.True(t, IsVirtualInterface("Docker0"))
	assert.True(t, IsVirtualInterface("utun3"))
	assert.False(t, IsVirtualInterface("en0"))
	assert.False(t, IsVirtualInterface("eth0"))
}
