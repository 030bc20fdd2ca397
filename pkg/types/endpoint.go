package types

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ============================================================================
//                              Endpoint - 服务端地址
// ============================================================================

// 支持的地址协议
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// Endpoint 服务端网络地址 scheme://host:port
//
// Endpoint 是不可变值类型，只能由 ParseEndpoint 或 NewEndpoint 构造，
// 构造成功即保证格式合法。零值表示“没有地址”。
type Endpoint struct {
	scheme string
	host   string
	port   uint16
}

// ParseEndpoint 解析地址字符串
//
// 接受 http/https，主机非空；端口缺省时使用协议默认端口；
// 路径只允许为空或 "/"，不允许用户信息、查询串和片段。
func ParseEndpoint(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Endpoint{}, fmt.Errorf("%w: empty", ErrInvalidEndpoint)
	}
	u, err := url.Parse(s)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, s, err)
	}
	if u.Opaque != "" || u.User != nil || u.RawQuery != "" || u.Fragment != "" {
		return Endpoint{}, fmt.Errorf("%w: %q: unexpected url components", ErrInvalidEndpoint, s)
	}
	if u.Path != "" && u.Path != "/" {
		return Endpoint{}, fmt.Errorf("%w: %q: path not allowed", ErrInvalidEndpoint, s)
	}

	port := 0
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Endpoint{}, fmt.Errorf("%w: %q: bad port", ErrInvalidEndpoint, s)
		}
		port = n
	} else {
		port = defaultPort(strings.ToLower(u.Scheme))
	}
	return NewEndpoint(u.Scheme, u.Hostname(), port)
}

// MustParseEndpoint 解析失败时 panic，用于常量和测试
func MustParseEndpoint(s string) Endpoint {
	ep, err := ParseEndpoint(s)
	if err != nil {
		panic(err)
	}
	return ep
}

// NewEndpoint 由各组成部分构造地址
func NewEndpoint(scheme, host string, port int) (Endpoint, error) {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	if scheme != SchemeHTTP && scheme != SchemeHTTPS {
		return Endpoint{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, scheme)
	}
	host = strings.ToLower(strings.Trim(strings.TrimSpace(host), "[]"))
	if host == "" || strings.ContainsAny(host, "/?#@ ") {
		return Endpoint{}, fmt.Errorf("%w: bad host %q", ErrInvalidEndpoint, host)
	}
	if port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: port %d out of range", ErrInvalidEndpoint, port)
	}
	return Endpoint{scheme: scheme, host: host, port: uint16(port)}, nil
}

func defaultPort(scheme string) int {
	switch scheme {
	case SchemeHTTP:
		return 80
	case SchemeHTTPS:
		return 443
	default:
		return 0
	}
}

// Scheme 返回协议
func (e Endpoint) Scheme() string { return e.scheme }

// Host 返回主机（IPv6 不带方括号）
func (e Endpoint) Host() string { return e.host }

// Port 返回端口
func (e Endpoint) Port() int { return int(e.port) }

// IsZero 是否为零值
func (e Endpoint) IsZero() bool { return e.scheme == "" }

// Equal 判断地址是否相同
func (e Endpoint) Equal(o Endpoint) bool { return e == o }

// String 返回规范化字符串 scheme://host:port，也是地址的唯一标识
func (e Endpoint) String() string {
	if e.IsZero() {
		return ""
	}
	return e.scheme + "://" + net.JoinHostPort(e.host, strconv.Itoa(int(e.port)))
}

// URL 拼接请求路径
func (e Endpoint) URL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return e.String() + path
}

// MarshalText 实现 encoding.TextMarshaler
func (e Endpoint) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (e *Endpoint) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*e = Endpoint{}
		return nil
	}
	ep, err := ParseEndpoint(string(b))
	if err != nil {
		return err
	}
	*e = ep
	return nil
}
