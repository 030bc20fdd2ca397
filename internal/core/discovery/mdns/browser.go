package mdns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/mdns"

	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

var log = logger.Logger("discovery/mdns")

// entriesBufferSize 单轮查询的应答缓冲
//
// hashicorp/mdns 以非阻塞方式写入 Entries，缓冲满时应答会被丢弃。
const entriesBufferSize = 32

// libLogger 库内部日志转入子系统 logger
var libLogger = slog.NewLogLogger(log.Handler(), slog.LevelDebug)

// QueryFunc 执行一轮 mDNS 查询，直到超时或 ctx 取消
type QueryFunc func(ctx context.Context, params *mdns.QueryParam) error

var _ QueryFunc = mdns.QueryContext

// Browser 客户端的组播发现通道
type Browser struct {
	cfg     BrowserConfig
	query   QueryFunc
	metrics *metrics.Discovery
	now     func() time.Time
}

var _ interfaces.Discovery = (*Browser)(nil)

// BrowserOption 发现选项
type BrowserOption func(*Browser)

// WithQueryFunc 替换底层查询实现
func WithQueryFunc(q QueryFunc) BrowserOption {
	return func(b *Browser) { b.query = q }
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Discovery) BrowserOption {
	return func(b *Browser) { b.metrics = m }
}

// NewBrowser 创建发现通道
func NewBrowser(cfg BrowserConfig, opts ...BrowserOption) (*Browser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultBrowserConfig().Domain
	}
	b := &Browser{
		cfg:   cfg,
		query: mdns.QueryContext,
		now:   time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	if b.metrics == nil {
		b.metrics = metrics.NewDiscovery(nil)
	}
	return b, nil
}

// Start 开始浏览 serviceType
//
// 返回的句柄立即开始第一轮查询；ctx 取消与 Stop 等价。
func (b *Browser) Start(ctx context.Context, serviceType string) (interfaces.DiscoveryHandle, error) {
	if serviceType == "" {
		return nil, &MDNSError{Op: "start", Err: fmt.Errorf("%w: empty service type", ErrInvalidConfig)}
	}

	var iface *net.Interface
	if b.cfg.Interface != "" {
		i, err := net.InterfaceByName(b.cfg.Interface)
		if err != nil {
			return nil, &MDNSError{Op: "start", Err: fmt.Errorf("%w: %v", types.ErrDiscoveryUnavailable, err)}
		}
		iface = i
	}

	seen, err := lru.New[string, struct{}](b.cfg.DedupeSize)
	if err != nil {
		return nil, &MDNSError{Op: "start", Err: err}
	}

	hctx, cancel := context.WithCancel(ctx)
	h := &handle{
		b:           b,
		serviceType: serviceType,
		iface:       iface,
		seen:        seen,
		out:         make(chan types.Candidate),
		done:        make(chan struct{}),
		ctx:         hctx,
		cancel:      cancel,
	}
	go h.run()

	log.Debug("开始浏览", "service", serviceType, "domain", b.cfg.Domain)
	return h, nil
}

// ============================================================================
//                              发现会话
// ============================================================================

type handle struct {
	b           *Browser
	serviceType string
	iface       *net.Interface
	seen        *lru.Cache[string, struct{}]

	out  chan types.Candidate
	done chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

var _ interfaces.DiscoveryHandle = (*handle)(nil)

func (h *handle) Candidates() <-chan types.Candidate { return h.out }

func (h *handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *handle) Stop() {
	h.cancel()
	<-h.done
}

func (h *handle) run() {
	defer close(h.done)
	defer close(h.out)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-timer.C:
		}

		if err := h.queryOnce(); err != nil {
			if h.ctx.Err() != nil {
				return
			}
			h.b.metrics.Failures.Inc()
			log.Warn("mDNS 查询失败，发现通道终止", "service", h.serviceType, "err", err)
			h.mu.Lock()
			h.err = &MDNSError{Op: "query", Err: fmt.Errorf("%w: %v", types.ErrDiscoveryUnavailable, err)}
			h.mu.Unlock()
			return
		}
		timer.Reset(h.b.cfg.QueryInterval)
	}
}

// queryOnce 执行一轮查询并转发应答
func (h *handle) queryOnce() error {
	h.b.metrics.Queries.Inc()

	entries := make(chan *mdns.ServiceEntry, entriesBufferSize)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for e := range entries {
			h.handleEntry(e)
		}
	}()

	params := &mdns.QueryParam{
		Service:             h.serviceType,
		Domain:              h.b.cfg.Domain,
		Timeout:             h.b.cfg.QueryTimeout,
		Interface:           h.iface,
		Entries:             entries,
		WantUnicastResponse: true,
		DisableIPv6:         h.b.cfg.DisableIPv6,
		Logger:              libLogger,
	}

	qctx, cancel := context.WithTimeout(h.ctx, h.b.cfg.QueryTimeout)
	err := h.b.query(qctx, params)
	cancel()
	if errors.Is(err, context.DeadlineExceeded) && h.ctx.Err() == nil {
		err = nil
	}

	close(entries)
	<-consumed
	return err
}

func (h *handle) handleEntry(e *mdns.ServiceEntry) {
	c, ok := candidateFromEntry(e, h.b.now())
	if !ok {
		h.b.metrics.Entries.WithLabelValues("dropped").Inc()
		return
	}

	key := c.Endpoint.String()
	if h.seen.Contains(key) {
		h.b.metrics.Entries.WithLabelValues("duplicate").Inc()
		return
	}
	h.seen.Add(key, struct{}{})

	select {
	case h.out <- c:
		h.b.metrics.Entries.WithLabelValues("emitted").Inc()
		log.Debug("发现服务端", "endpoint", key, "name", c.Name)
	case <-h.ctx.Done():
	}
}
