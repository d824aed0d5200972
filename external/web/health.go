package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type healthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
	Clients  int    `json:"clients"`
}

// handleHealth always answers 200; presence is best-effort and a lost upstream
// only shows up in the upstream field.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Upstream: s.link.State().String(),
		Clients:  s.hub.Count(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Debug("failed to write health response", "error", err)
	}
}
