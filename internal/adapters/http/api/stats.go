package api

import (
	"net/http"
	"strings"
)

// StatsProvider reports session counters.
type StatsProvider interface {
	Stats() map[string]any
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	stats StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(stats StatsProvider) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats writes the session counters. An optional comma separated
// "fields" query parameter limits the response to the named keys.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	stats := h.stats.Stats()
	fields := r.URL.Query().Get("fields")
	if fields == "" {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	out := make(map[string]any)
	for _, key := range strings.Split(fields, ",") {
		key = strings.TrimSpace(key)
		if v, ok := stats[key]; ok {
			out[key] = v
		}
	}
	writeJSON(w, http.StatusOK, out)
}
