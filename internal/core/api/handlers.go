package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IFIR649/react-pc-mobile/internal/core/items"
	"github.com/IFIR649/react-pc-mobile/internal/core/metrics"
	"github.com/IFIR649/react-pc-mobile/pkg/protocolids"
	"github.com/IFIR649/react-pc-mobile/pkg/types"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+protocolids.PathHealth, s.handleHealth)
	mux.Handle("GET "+protocolids.PathServerInfo, s.limit(compress(http.HandlerFunc(s.handleServerInfo))))
	mux.Handle("GET "+protocolids.PathItems, s.limit(compress(http.HandlerFunc(s.handleListItems))))
	mux.Handle("POST "+protocolids.PathItems, s.limit(http.HandlerFunc(s.handleCreateItem)))
	mux.Handle("PUT "+protocolids.PathItems+"/{id}", s.limit(http.HandlerFunc(s.handleUpdateItem)))
	mux.Handle("DELETE "+protocolids.PathItems+"/{id}", s.limit(http.HandlerFunc(s.handleDeleteItem)))
	if s.gather != nil {
		mux.Handle("GET "+protocolids.PathMetrics, s.limit(metrics.Handler(s.gather)))
	}

	return s.instrument(cors(mux))
}

// ============================================================================
//                              处理器
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		OK:   true,
		Time: s.clock.Now().UTC(),
	})
}

func (s *Server) handleServerInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.ServerInfo{
		OK:   true,
		Name: s.cfg.Name,
		Type: s.cfg.ServiceType,
		Port: s.Port(),
		URLs: s.URLs(),
		Time: s.clock.Now().UTC(),
	})
}

func (s *Server) handleListItems(w http.ResponseWriter, _ *http.Request) {
	list, err := s.items.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ItemListResponse{OK: true, Items: list})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	it, err := s.items.Create(in.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.Items.Inc()
	writeJSON(w, http.StatusCreated, types.ItemResponse{OK: true, Item: it})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	it, err := s.items.Update(r.PathValue("id"), in.Title)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ItemResponse{OK: true, Item: it})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.items.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.Items.Dec()
	writeJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

// ============================================================================
//                              编解码
// ============================================================================

func decodeInput(w http.ResponseWriter, r *http.Request) (types.ItemInput, bool) {
	var in types.ItemInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: "invalid json body"})
		return in, false
	}
	return in, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, items.ErrNotFound):
		writeJSON(w, http.StatusNotFound, types.ErrorResponse{Error: "not found"})
	case errors.Is(err, items.ErrInvalidTitle):
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	default:
		log.Error("请求处理失败", "err", err)
		writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("写响应失败", "err", err)
	}
}
