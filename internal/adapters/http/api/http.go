// Package api serves the operator command and status HTTP API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/mjoy/internal/domain/model"
)

// Commands accepts operator commands for the session loop.
type Commands interface {
	// Enqueue hands a command over without blocking.
	Enqueue(ctx context.Context, c model.Command) error
}

// Snapshots exposes read-only copies of session state.
type Snapshots interface {
	Stats() map[string]any
	Roster() model.TeamLock
	Bindings() []model.NamedPath
	// Feedback is only available while a game is active.
	Feedback() (model.FeedbackInfo, bool)
}

// Server wires HTTP routes for the operator API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	commandsHandler *CommandsHandler
	sessionHandler  *SessionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(commands Commands, snapshots Snapshots) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(snapshots),
		commandsHandler: NewCommandsHandler(commands),
		sessionHandler:  NewSessionHandler(snapshots),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/setup", MetricsMiddleware(s.commandsHandler.HandleSetup, "setup"))
	mux.HandleFunc("/start", MetricsMiddleware(s.commandsHandler.HandleStart, "start"))
	mux.HandleFunc("/team", MetricsMiddleware(s.commandsHandler.HandleTeams, "teams"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.commandsHandler.HandleTeams, "teams"))
	mux.HandleFunc("/command", MetricsMiddleware(s.commandsHandler.HandleCommand, "command"))

	mux.HandleFunc("/roster", MetricsMiddleware(s.sessionHandler.HandleRoster, "roster"))
	mux.HandleFunc("/bindings", MetricsMiddleware(s.sessionHandler.HandleBindings, "bindings"))
	mux.HandleFunc("/feedback", MetricsMiddleware(s.sessionHandler.HandleFeedback, "feedback"))
}

type ackResponse struct {
	Status  string `json:"status"`
	Command string `json:"command"`
	Teams   int    `json:"teams,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
