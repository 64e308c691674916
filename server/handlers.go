package server

import (
	"net/http"

	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/renderer"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{"status": "healthy"}
	if snap := s.journal.Current(); snap != nil {
		response["cycle"] = snap.Cycle
		response["at"] = snap.At
	}
	if err := s.journal.Err(); err != nil {
		response["status"] = "degraded"
		response["error"] = err.Error()
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleSnapshot returns the snapshot in JSON, or in markdown with ?format=markdown.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(renderer.Render(snap, renderer.Options{})))
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if snap := s.snapshot(w); snap != nil {
		s.writeJSON(w, http.StatusOK, nonNil(snap.Positions))
	}
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	ticker := chi.URLParam(r, "ticker")
	p, ok := snap.Position(ticker)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no open position for "+tradejournal.NormalizeTicker(ticker))
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleClosed(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w)
	if snap == nil {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"trades": nonNil(snap.Closed),
		"stats":  snap.Stats,
	})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if snap := s.snapshot(w); snap != nil {
		s.writeJSON(w, http.StatusOK, nonNil(snap.Insights))
	}
}

// handleRefresh runs a pass now and returns the published snapshot.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.journal.Refresh(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("refresh failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// nonNil encodes empty lists as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
