package types

import (
	"sort"
	"strings"
)

// 广播元数据中的保留键
const (
	TXTKeyName   = "name"
	TXTKeyScheme = "scheme"
	TXTKeyAddrs  = "addrs"
)

// ServiceAdvertisement 服务端在局域网上广播的服务描述
type ServiceAdvertisement struct {
	// Name 实例名称
	Name string

	// ServiceType 服务类型，如 "_pclink._tcp"
	ServiceType string

	// Port 服务端口
	Port int

	// Metadata 附加元数据，以 key=value TXT 记录发送
	Metadata map[string]string
}

// TXT 将元数据编码为按键排序的 TXT 记录
func (a ServiceAdvertisement) TXT() []string {
	keys := make([]string, 0, len(a.Metadata))
	for k := range a.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	txt := make([]string, 0, len(keys))
	for _, k := range keys {
		txt = append(txt, k+"="+a.Metadata[k])
	}
	return txt
}

// ParseTXT 将 TXT 记录解析为元数据，重复键保留第一次出现的值
func ParseTXT(records []string) map[string]string {
	md := make(map[string]string, len(records))
	for _, r := range records {
		k, v, _ := strings.Cut(r, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, dup := md[k]; !dup {
			md[k] = v
		}
	}
	return md
}
