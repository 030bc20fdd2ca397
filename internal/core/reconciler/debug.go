package reconciler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
)

// stateSnapshot /debug/state 响应
type stateSnapshot struct {
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Endpoint    string    `json:"endpoint,omitempty"`
	Candidate   string    `json:"candidate,omitempty"`
	Source      string    `json:"source,omitempty"`
	HintUseCode bool      `json:"hintUseCode,omitempty"`
	Warning     string    `json:"warning,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Epoch       uint64    `json:"epoch"`
	Since       time.Time `json:"since"`
}

// StateHandler 以 JSON 输出当前状态
func StateHandler(r *Reconciler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s := r.State()
		snap := stateSnapshot{
			Kind:        s.Kind.String(),
			Status:      s.Status(),
			HintUseCode: s.HintUseCode,
			Warning:     s.Warning,
			Reason:      s.Reason,
			Epoch:       s.Epoch,
			Since:       s.Since,
		}
		if !s.Endpoint.IsZero() {
			snap.Endpoint = s.Endpoint.String()
		}
		if !s.Candidate.Endpoint.IsZero() {
			snap.Candidate = s.Candidate.Endpoint.String()
			snap.Source = s.Candidate.Source.String()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	})
}

// DebugRoute 挂载到指标服务的 /debug/state
func DebugRoute(r *Reconciler) metrics.Route {
	return metrics.Route{Pattern: "GET /debug/state", Handler: StateHandler(r)}
}
