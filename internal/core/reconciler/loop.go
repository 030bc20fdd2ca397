package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/IFIR649/react-pc-mobile/pkg/interfaces"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// reasonStopped 未连接时停止的原因
const reasonStopped = "stopped before a server was validated"

// loopState run 协程私有的一轮查找状态
type loopState struct {
	epoch uint64

	// 发现
	handle    interfaces.DiscoveryHandle
	exhausted bool
	hint      bool

	// 候选与探测
	pending     []types.Candidate
	probing     bool
	probeCancel context.CancelFunc
	results     chan probeResult

	// 定时器
	discoveryTimer *clock.Timer
	retryTimer     *clock.Timer
	reprobe        *clock.Ticker

	reprobeFailures int
	reprobeInFlight bool
}

type probeResult struct {
	epoch   uint64
	cand    types.Candidate
	result  types.HealthResult
	err     error
	reprobe bool
	elapsed time.Duration
}

func (r *Reconciler) run(ctx context.Context, cmds <-chan command, done chan struct{}) {
	defer close(done)

	r.beginSearch(ctx, true)

	for {
		l := &r.loop
		select {
		case <-ctx.Done():
			r.shutdown()
			return

		case cmd := <-cmds:
			cmd.reply <- r.handleCommand(ctx, cmd)

		case c, ok := <-candidates(l.handle):
			if !ok {
				r.onDiscoveryClosed()
				continue
			}
			r.onCandidate(ctx, c)

		case res := <-l.results:
			r.onProbeResult(ctx, res)

		case <-timerC(l.discoveryTimer):
			l.discoveryTimer = nil
			r.onDiscoveryTimeout()

		case <-timerC(l.retryTimer):
			l.retryTimer = nil
			r.onDiscoveryRetry(ctx)

		case <-tickerC(l.reprobe):
			r.onReprobeTick(ctx)
		}
	}
}

// ============================================================================
//                              查找轮次
// ============================================================================

// beginSearch 开始新一轮查找
//
// useStore 为 true 时先尝试保存的地址，否则直接启动组播发现。
func (r *Reconciler) beginSearch(ctx context.Context, useStore bool) {
	r.endCycle()
	l := &r.loop
	l.epoch++

	r.publish(types.ConnectionState{Kind: types.StateSearching, Epoch: l.epoch})

	if useStore {
		ep, ok, err := r.store.Load()
		switch {
		case err != nil:
			log.Warn("读取保存的地址失败，按未保存处理", "err", err)
		case ok:
			r.enqueue(types.Candidate{
				Endpoint:     ep,
				Source:       types.SourcePersisted,
				DiscoveredAt: r.clock.Now(),
			}, false)
			r.advance(ctx)
			return
		}
	}

	r.startDiscovery(ctx)
	r.advance(ctx)
}

// endCycle 结束当前轮次：取消探测、停止发现与所有定时器
func (r *Reconciler) endCycle() {
	l := &r.loop
	if l.probeCancel != nil {
		l.probeCancel()
		l.probeCancel = nil
	}
	l.probing = false
	l.pending = nil
	l.hint = false
	l.exhausted = false
	r.stopDiscovery()
	stopTimer(&l.retryTimer)
	r.stopReprobe()
}

func (r *Reconciler) shutdown() {
	r.endCycle()
	cur := r.State()
	if cur.Kind == types.StateSearching || cur.Kind == types.StateProbing {
		r.publish(types.ConnectionState{
			Kind:        types.StateFailed,
			Reason:      reasonStopped,
			HintUseCode: true,
			Epoch:       cur.Epoch,
		})
	}
}

// ============================================================================
//                              组播发现
// ============================================================================

func (r *Reconciler) startDiscovery(ctx context.Context) {
	l := &r.loop
	if l.handle != nil {
		return
	}
	stopTimer(&l.retryTimer)
	l.exhausted = false

	h, err := r.discovery.Start(ctx, r.cfg.ServiceType)
	if err != nil {
		r.onDiscoveryUnavailable(err)
		return
	}
	l.handle = h
	if l.discoveryTimer == nil && !l.hint {
		l.discoveryTimer = r.clock.Timer(r.cfg.DiscoveryTimeout)
	}
	log.Debug("开始组播发现", "service", r.cfg.ServiceType, "epoch", l.epoch)
}

func (r *Reconciler) stopDiscovery() {
	l := &r.loop
	stopTimer(&l.discoveryTimer)
	if l.handle != nil {
		l.handle.Stop()
		l.handle = nil
	}
}

func (r *Reconciler) onDiscoveryClosed() {
	l := &r.loop
	err := l.handle.Err()
	l.handle.Stop()
	l.handle = nil
	if err == nil {
		err = fmt.Errorf("%w: channel closed", types.ErrDiscoveryUnavailable)
	}
	r.onDiscoveryUnavailable(err)
}

// onDiscoveryUnavailable 组播不可用：立即提示配对码，按间隔重试
func (r *Reconciler) onDiscoveryUnavailable(err error) {
	l := &r.loop
	l.exhausted = true
	stopTimer(&l.discoveryTimer)
	log.Warn("组播发现不可用", "err", err, "retry", r.cfg.DiscoveryRetryInterval)

	if r.cfg.DiscoveryRetryInterval > 0 {
		l.retryTimer = r.clock.Timer(r.cfg.DiscoveryRetryInterval)
	}
	r.setHint()
}

func (r *Reconciler) onDiscoveryRetry(ctx context.Context) {
	l := &r.loop
	if !l.exhausted || r.State().Kind == types.StateConnected {
		return
	}
	log.Debug("重试组播发现", "epoch", l.epoch)
	r.startDiscovery(ctx)
}

func (r *Reconciler) onDiscoveryTimeout() {
	log.Info("查找超时，提示使用配对码", "timeout", r.cfg.DiscoveryTimeout)
	r.setHint()
}

// setHint 设置配对码提示并重新发布当前状态
func (r *Reconciler) setHint() {
	l := &r.loop
	if l.hint {
		return
	}
	l.hint = true
	cur := r.State()
	if cur.Kind == types.StateSearching || cur.Kind == types.StateProbing {
		cur.HintUseCode = true
		r.publish(cur)
	}
}

// ============================================================================
//                              候选与探测
// ============================================================================

func (r *Reconciler) onCandidate(ctx context.Context, c types.Candidate) {
	if r.State().Kind == types.StateConnected {
		return
	}
	r.enqueue(c, false)
	r.advance(ctx)
}

// enqueue 加入待探测队列，front 为 true 时插到队首
func (r *Reconciler) enqueue(c types.Candidate, front bool) {
	l := &r.loop
	r.metrics.Candidates.WithLabelValues(c.Source.String()).Inc()
	for _, p := range l.pending {
		if p.Endpoint.Equal(c.Endpoint) && p.Source == c.Source {
			return
		}
	}
	if front {
		l.pending = append([]types.Candidate{c}, l.pending...)
		return
	}
	l.pending = append(l.pending, c)
}

// advance 没有在途探测时取出下一个候选
func (r *Reconciler) advance(ctx context.Context) {
	l := &r.loop
	if l.probing || r.State().Kind == types.StateConnected {
		return
	}
	if len(l.pending) == 0 {
		cur := r.State()
		if cur.Kind != types.StateSearching || cur.HintUseCode != l.hint {
			r.publish(types.ConnectionState{Kind: types.StateSearching, HintUseCode: l.hint, Epoch: l.epoch})
		}
		return
	}

	c := l.pending[0]
	l.pending = l.pending[1:]
	l.probing = true

	r.publish(types.ConnectionState{
		Kind:        types.StateProbing,
		Candidate:   c,
		HintUseCode: l.hint,
		Epoch:       l.epoch,
	})
	log.Debug("验证候选", "candidate", c.String(), "epoch", l.epoch)

	pctx, cancel := context.WithCancel(ctx)
	l.probeCancel = cancel
	r.launchProbe(ctx, pctx, c, false)
}

// launchProbe 在独立协程中探测，结果写回 results
func (r *Reconciler) launchProbe(loopCtx, ctx context.Context, c types.Candidate, reprobe bool) {
	epoch := r.loop.epoch
	results := r.loop.results
	go func() {
		start := r.clock.Now()
		res, err := r.prober.Probe(ctx, c.Endpoint, r.cfg.ProbeTimeout)
		select {
		case results <- probeResult{
			epoch:   epoch,
			cand:    c,
			result:  res,
			err:     err,
			reprobe: reprobe,
			elapsed: r.clock.Since(start),
		}:
		case <-loopCtx.Done():
		}
	}()
}

func (r *Reconciler) onProbeResult(ctx context.Context, res probeResult) {
	l := &r.loop
	if res.epoch != l.epoch {
		r.metrics.StaleResults.Inc()
		log.Debug("丢弃过期探测结果", "candidate", res.cand.String(), "epoch", res.epoch, "current", l.epoch)
		return
	}

	alive := res.err == nil && res.result.Alive
	outcome := "dead"
	if alive {
		outcome = "alive"
	}
	r.metrics.Probes.WithLabelValues(res.cand.Source.String(), outcome).Inc()
	r.metrics.ProbeDuration.WithLabelValues(res.cand.Source.String()).Observe(res.elapsed.Seconds())

	if res.reprobe {
		r.onReprobeResult(ctx, res, alive)
		return
	}

	l.probing = false
	if l.probeCancel != nil {
		l.probeCancel()
		l.probeCancel = nil
	}

	if alive {
		r.commit(res.cand)
		return
	}

	reason := res.result.Reason
	if res.err != nil {
		reason = res.err.Error()
	}
	log.Info("候选验证失败", "candidate", res.cand.String(), "reason", reason)

	if res.cand.Source == types.SourcePersisted {
		r.startDiscovery(ctx)
	}
	r.advance(ctx)
}

// commit 候选验证成功：停止查找，保存地址后发布 Connected
func (r *Reconciler) commit(c types.Candidate) {
	l := &r.loop
	r.stopDiscovery()
	stopTimer(&l.retryTimer)
	l.pending = nil
	l.exhausted = false
	l.hint = false

	var warning string
	if err := r.store.Save(c.Endpoint); err != nil {
		warning = err.Error()
		log.Warn("保存地址失败", "endpoint", c.Endpoint.String(), "err", err)
	}

	r.publish(types.ConnectionState{
		Kind:      types.StateConnected,
		Candidate: c,
		Endpoint:  c.Endpoint,
		Warning:   warning,
		Epoch:     l.epoch,
	})

	l.reprobeFailures = 0
	l.reprobeInFlight = false
	if r.cfg.ReprobeInterval > 0 {
		l.reprobe = r.clock.Ticker(r.cfg.ReprobeInterval)
	}
}

// ============================================================================
//                              周期探测
// ============================================================================

func (r *Reconciler) onReprobeTick(ctx context.Context) {
	l := &r.loop
	if l.reprobeInFlight {
		return
	}
	cur := r.State()
	if cur.Kind != types.StateConnected {
		r.stopReprobe()
		return
	}
	l.reprobeInFlight = true
	r.launchProbe(ctx, ctx, cur.Candidate, true)
}

func (r *Reconciler) onReprobeResult(ctx context.Context, res probeResult, alive bool) {
	l := &r.loop
	l.reprobeInFlight = false
	if r.State().Kind != types.StateConnected {
		return
	}
	if alive {
		l.reprobeFailures = 0
		return
	}

	l.reprobeFailures++
	log.Warn("周期探测失败",
		"endpoint", res.cand.Endpoint.String(),
		"reason", res.result.Reason,
		"failures", l.reprobeFailures)
	if l.reprobeFailures >= r.cfg.ReprobeFailures {
		r.beginSearch(ctx, false)
	}
}

func (r *Reconciler) stopReprobe() {
	l := &r.loop
	if l.reprobe != nil {
		l.reprobe.Stop()
		l.reprobe = nil
	}
	l.reprobeFailures = 0
	l.reprobeInFlight = false
}

// ============================================================================
//                              命令处理
// ============================================================================

func (r *Reconciler) handleCommand(ctx context.Context, cmd command) error {
	switch cmd.kind {
	case cmdReconnect:
		switch r.State().Kind {
		case types.StateIdle, types.StateFailed:
			r.beginSearch(ctx, true)
		}
		return nil

	case cmdForget:
		r.endCycle()
		r.loop.epoch++
		r.publish(types.ConnectionState{Kind: types.StateIdle, Epoch: r.loop.epoch})
		return r.clearStore()

	case cmdCode:
		switch r.State().Kind {
		case types.StateConnected:
			return types.ErrAlreadyConnected
		case types.StateIdle, types.StateFailed:
			r.beginSearch(ctx, true)
		}
		log.Info("收到配对码", "candidate", cmd.cand.String())
		r.enqueue(cmd.cand, true)
		r.advance(ctx)
		return nil
	}
	return nil
}

func (r *Reconciler) clearStore() error {
	if err := r.store.Clear(); err != nil {
		log.Warn("清除保存的地址失败", "err", err)
		return err
	}
	return nil
}

// ============================================================================
//                              工具函数
// ============================================================================

func candidates(h interfaces.DiscoveryHandle) <-chan types.Candidate {
	if h == nil {
		return nil
	}
	return h.Candidates()
}

func timerC(t *clock.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func tickerC(t *clock.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func stopTimer(t **clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
