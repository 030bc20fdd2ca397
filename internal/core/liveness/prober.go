// Package liveness 实现候选地址的存活探测
//
// 对 {endpoint}/health 发起一次带超时的 GET 请求。
// 网络不可达、非 200、响应体缺少 ok=true 以及超时都只是否定结果，
// 不会作为错误返回；错误只用于调用方传入非法参数。
package liveness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

var log = logger.Logger("liveness")

const (
	// DefaultTimeout 默认探测超时
	DefaultTimeout = 4 * time.Second

	// MaxTimeout 探测超时上限
	MaxTimeout = 30 * time.Second

	// DefaultMaxBodyBytes 默认响应体读取上限
	DefaultMaxBodyBytes = 4 << 10
)

// ErrInvalidTimeout 超时参数非法
var ErrInvalidTimeout = errors.New("liveness: timeout must be positive")

// 否定结果原因
const (
	ReasonUnreachable = "unreachable"
	ReasonTimeout     = "timeout"
	ReasonStatus      = "unexpected status"
	ReasonBody        = "malformed body"
	ReasonMarker      = "missing ok marker"
	ReasonCanceled    = "canceled"
)

// Config 探测器配置
type Config struct {
	// HealthPath 探测路径
	HealthPath string

	// MaxBodyBytes 响应体读取上限
	MaxBodyBytes int64

	// Client 自定义 HTTP 客户端（可选）
	Client *http.Client
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		HealthPath:   protocolids.PathHealth,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Prober HTTP 存活探测器
type Prober struct {
	client   *http.Client
	path     string
	maxBytes int64
}

// New 创建探测器
func New(cfg Config) *Prober {
	if cfg.HealthPath == "" {
		cfg.HealthPath = protocolids.PathHealth
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	client := cfg.Client
	if client == nil {
		// 超时由每次探测的 context 控制
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               nil,
				MaxIdleConnsPerHost: 1,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &Prober{
		client:   client,
		path:     cfg.HealthPath,
		maxBytes: cfg.MaxBodyBytes,
	}
}

// healthBody 响应体，time 接受 RFC3339 字符串或毫秒时间戳
type healthBody struct {
	OK   *bool           `json:"ok"`
	Time json.RawMessage `json:"time"`
}

// Probe 探测地址是否存活
func (p *Prober) Probe(ctx context.Context, ep types.Endpoint, timeout time.Duration) (types.HealthResult, error) {
	if ep.IsZero() {
		return types.HealthResult{}, fmt.Errorf("liveness: %w: zero endpoint", types.ErrInvalidEndpoint)
	}
	if timeout <= 0 {
		return types.HealthResult{}, ErrInvalidTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result := func(reason string) (types.HealthResult, error) {
		r := types.HealthResult{Latency: time.Since(start), Reason: reason}
		log.Debug("探测失败", "endpoint", ep, "reason", reason, "latency", r.Latency)
		return r, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL(p.path), nil)
	if err != nil {
		return types.HealthResult{}, fmt.Errorf("liveness: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return result(classify(ctx, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result(fmt.Sprintf("%s %d", ReasonStatus, resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		return result(classify(ctx, err))
	}

	var body healthBody
	if err := json.Unmarshal(data, &body); err != nil {
		return result(ReasonBody)
	}
	if body.OK == nil || !*body.OK {
		return result(ReasonMarker)
	}

	r := types.HealthResult{
		Alive:      true,
		ServerTime: parseTime(body.Time),
		Latency:    time.Since(start),
	}
	log.Debug("探测成功", "endpoint", ep, "latency", r.Latency)
	return r, nil
}

// Err 把否定结果转换为包装 types.ErrUnreachableEndpoint 的错误，存活时返回 nil
func Err(ep types.Endpoint, r types.HealthResult) error {
	if r.Alive {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", types.ErrUnreachableEndpoint, ep, r.Reason)
}

func classify(ctx context.Context, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return ReasonCanceled
	default:
		return ReasonUnreachable
	}
}

func parseTime(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms)
		}
		return time.Time{}
	}
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

var _ interfaces.Prober = (*Prober)(nil)
