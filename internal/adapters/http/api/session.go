package api

import (
	"net/http"
)

// SessionHandler serves roster, bindings and feedback snapshots.
type SessionHandler struct {
	snapshots Snapshots
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(snapshots Snapshots) *SessionHandler {
	return &SessionHandler{snapshots: snapshots}
}

// HandleRoster handles GET /roster.
func (h *SessionHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshots.Roster())
}

// HandleBindings handles GET /bindings.
func (h *SessionHandler) HandleBindings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.snapshots.Bindings())
}

// HandleFeedback handles GET /feedback. It is 404 outside an active game.
func (h *SessionHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "api.feedback"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	info, ok := h.snapshots.Feedback()
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, info)
}
