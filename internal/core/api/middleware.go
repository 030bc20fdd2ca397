package api

import (
	"net/http"
	"strconv"

	"github.com/klauspost/compress/gzhttp"

	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

// compress 客户端声明 Accept-Encoding: gzip 且响应足够大时压缩
//
// /metrics 由 promhttp 自行协商压缩，不经过这里。
func compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// limit 令牌桶限速
func (s *Server) limit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.metrics.Limited.Inc()
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, types.ErrorResponse{Error: "rate limited"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument 记录请求数与耗时，route 取匹配到的路由模式
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.metrics.Duration.WithLabelValues(route).Observe(s.clock.Since(start).Seconds())
		log.Debug("请求完成", "method", r.Method, "path", r.URL.Path, "code", rec.code)
	})
}

// cors 允许浏览器端页面跨域访问
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
