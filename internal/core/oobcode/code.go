// Package oobcode 解析与生成配对码负载
//
// 配对码是一段 JSON：{"baseUrl":"http://192.168.1.50:4310","name":"desk"}。
// 服务端把它显示为文本或二维码，客户端扫描/粘贴后解码为候选地址。
// 解码是纯函数，不做网络访问。
package oobcode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// MaxPayloadSize 负载大小上限
const MaxPayloadSize = 2 << 10

// Payload 配对码内容，未知字段在解码时忽略
type Payload struct {
	BaseURL string `json:"baseUrl"`
	Name    string `json:"name,omitempty"`
}

// Decode 将配对码负载解码为候选地址
func Decode(payload []byte) (types.Candidate, error) {
	return DecodeAt(payload, time.Now())
}

// DecodeAt 同 Decode，使用指定的获得时间
func DecodeAt(payload []byte, now time.Time) (types.Candidate, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return types.Candidate{}, fmt.Errorf("%w: empty payload", types.ErrInvalidCode)
	}
	if len(payload) > MaxPayloadSize {
		return types.Candidate{}, fmt.Errorf("%w: payload too large", types.ErrInvalidCode)
	}

	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return types.Candidate{}, fmt.Errorf("%w: %v", types.ErrInvalidCode, err)
	}
	if strings.TrimSpace(p.BaseURL) == "" {
		return types.Candidate{}, fmt.Errorf("%w: missing baseUrl", types.ErrInvalidCode)
	}
	ep, err := types.ParseEndpoint(p.BaseURL)
	if err != nil {
		return types.Candidate{}, fmt.Errorf("%w: %v", types.ErrInvalidCode, err)
	}

	return types.Candidate{
		Endpoint:     ep,
		Source:       types.SourceCode,
		DiscoveredAt: now,
		Name:         strings.TrimSpace(p.Name),
	}, nil
}

// Encode 生成配对码负载
func Encode(p Payload) ([]byte, error) {
	ep, err := types.ParseEndpoint(p.BaseURL)
	if err != nil {
		return nil, err
	}
	p.BaseURL = ep.String()
	return json.Marshal(p)
}

// ForEndpoint 为地址生成配对码负载
func ForEndpoint(ep types.Endpoint, name string) ([]byte, error) {
	return Encode(Payload{BaseURL: ep.String(), Name: name})
}
