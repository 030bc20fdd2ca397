package reconciler

import (
	"context"
	"errors"
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/internal/core/oobcode"
	"github.com/IFIR649/react-pc-mobile/internal/util/logger"
	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

var log = logger.Logger("reconciler")

// Params 状态机依赖
type Params struct {
	Store     interfaces.EndpointStore
	Prober    interfaces.Prober
	Discovery interfaces.Discovery

	// Clock 时钟，为空时使用系统时钟
	Clock clock.Clock

	// Metrics 指标，为空时不注册
	Metrics *metrics.Reconciler
}

// Reconciler 客户端连接状态机
type Reconciler struct {
	cfg       Config
	store     interfaces.EndpointStore
	prober    interfaces.Prober
	discovery interfaces.Discovery
	clock     clock.Clock
	metrics   *metrics.Reconciler

	// mu 保护对外发布的状态快照、订阅者与运行控制
	mu      sync.RWMutex
	state   types.ConnectionState
	subs    map[int]chan types.ConnectionState
	nextSub int
	cmds    chan command
	cancel  context.CancelFunc
	done    chan struct{}

	// 以下字段只由 run 协程访问
	loop loopState
}

// New 创建状态机
func New(cfg Config, p Params) (*Reconciler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if p.Store == nil || p.Prober == nil || p.Discovery == nil {
		return nil, ErrInvalidConfig
	}
	if p.Clock == nil {
		p.Clock = clock.New()
	}
	if p.Metrics == nil {
		p.Metrics = metrics.NewReconciler(nil)
	}

	r := &Reconciler{
		cfg:       cfg,
		store:     p.Store,
		prober:    p.Prober,
		discovery: p.Discovery,
		clock:     p.Clock,
		metrics:   p.Metrics,
		subs:      make(map[int]chan types.ConnectionState),
	}
	r.state = types.ConnectionState{Kind: types.StateIdle, Since: r.clock.Now()}
	r.metrics.State.WithLabelValues(types.StateIdle.String()).Set(1)
	return r, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动 run 协程并开始第一轮查找
//
// ctx 取消与 Stop 等价。停止后可以再次 Start。
func (r *Reconciler) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runningLocked() {
		return ErrAlreadyStarted
	}

	lctx, cancel := context.WithCancel(ctx)
	r.cmds = make(chan command)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.loop = loopState{
		epoch:   r.state.Epoch,
		results: make(chan probeResult, 1),
	}

	go r.run(lctx, r.cmds, r.done)
	log.Debug("状态机已启动")
	return nil
}

// Stop 停止 run 协程并等待其退出
//
// 未连接时停止会进入 Failed。
func (r *Reconciler) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if done == nil {
		return
	}
	cancel()
	<-done

	r.mu.Lock()
	if r.done == done {
		r.cancel = nil
		r.done = nil
		r.cmds = nil
	}
	r.mu.Unlock()
	log.Debug("状态机已停止")
}

// ============================================================================
//                              命令
// ============================================================================

type commandKind int

const (
	cmdReconnect commandKind = iota
	cmdForget
	cmdCode
)

type command struct {
	kind  commandKind
	cand  types.Candidate
	reply chan error
}

// Reconnect 在 Idle/Failed 状态下开始新一轮查找，其他状态下无操作
func (r *Reconciler) Reconnect(ctx context.Context) error {
	return r.send(ctx, command{kind: cmdReconnect})
}

// Forget 清除保存的地址并回到 Idle
//
// 轮次号递增，在途探测的结果不会再使状态回到 Connected。
// 返回清除存储时的错误，状态无论如何都会变为 Idle。
func (r *Reconciler) Forget(ctx context.Context) error {
	err := r.send(ctx, command{kind: cmdForget})
	if !errors.Is(err, ErrNotRunning) {
		return err
	}

	// 未运行时直接清除
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.runningLocked() {
		return ErrNotRunning
	}
	next := types.ConnectionState{Kind: types.StateIdle, Epoch: r.state.Epoch + 1, Since: r.clock.Now()}
	r.publishLocked(next)
	return r.clearStore()
}

// SubmitCode 提交配对码
//
// 配对码无效时立即返回包装 types.ErrInvalidCode 的错误，状态不变；
// 已连接时返回 types.ErrAlreadyConnected。
func (r *Reconciler) SubmitCode(ctx context.Context, payload []byte) error {
	cand, err := oobcode.DecodeAt(payload, r.clock.Now())
	if err != nil {
		return err
	}
	return r.send(ctx, command{kind: cmdCode, cand: cand})
}

// runningLocked run 协程是否仍在运行，调用方持有 mu
func (r *Reconciler) runningLocked() bool {
	if r.done == nil {
		return false
	}
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

func (r *Reconciler) send(ctx context.Context, cmd command) error {
	r.mu.RLock()
	cmds, done := r.cmds, r.done
	r.mu.RUnlock()

	if done == nil {
		return ErrNotRunning
	}

	cmd.reply = make(chan error, 1)
	select {
	case cmds <- cmd:
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ============================================================================
//                              状态查询
// ============================================================================

// State 返回当前状态的副本
func (r *Reconciler) State() types.ConnectionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Status 返回面向用户的状态文案
func (r *Reconciler) Status() string {
	return r.State().Status()
}

// Current 返回已连接的地址
func (r *Reconciler) Current() (types.Endpoint, bool) {
	s := r.State()
	if !s.IsConnected() {
		return types.Endpoint{}, false
	}
	return s.Endpoint, true
}

// Subscribe 订阅状态变化
//
// 通道容量为 1，只保留最新状态；订阅时立即收到当前状态。
// 调用返回的函数取消订阅并关闭通道。
func (r *Reconciler) Subscribe() (<-chan types.ConnectionState, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	ch := make(chan types.ConnectionState, 1)
	ch <- r.state
	r.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
}

// publish 发布新状态
func (r *Reconciler) publish(next types.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishLocked(next)
}

func (r *Reconciler) publishLocked(next types.ConnectionState) {
	prev := r.state
	if next.Since.IsZero() {
		next.Since = r.clock.Now()
	}
	r.state = next

	if prev.Kind != next.Kind {
		r.metrics.Transitions.WithLabelValues(prev.Kind.String(), next.Kind.String()).Inc()
		r.metrics.State.WithLabelValues(prev.Kind.String()).Set(0)
		r.metrics.State.WithLabelValues(next.Kind.String()).Set(1)
		log.Info("连接状态变化",
			"from", prev.Kind.String(),
			"to", next.Kind.String(),
			"epoch", next.Epoch,
			"status", next.Status())
	}

	for _, ch := range r.subs {
		select {
		case ch <- next:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}
