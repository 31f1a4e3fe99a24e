package server

import (
	"net/http"

	"github.com/tkilaker/magazine/internal/feed"
	"github.com/tkilaker/magazine/internal/logger"
)

// handleRSS serves the cached payload as an RSS feed. It never fetches.
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	rec := s.store.Load(r.Context())
	if rec == nil || rec.Data == nil {
		http.Error(w, "No cached articles yet", http.StatusServiceUnavailable)
		return
	}

	rss, err := feed.Generate(rec, s.config)
	if err != nil {
		logger.Log.Errorf("Failed to generate feed: %v", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}
