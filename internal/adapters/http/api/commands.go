package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/mjoy/internal/adapters/mq/queue"
	"github.com/okian/mjoy/internal/domain/model"
)

const (
	maxTeams       = 4
	maxCommandBody = 1024
)

// CommandsHandler turns operator requests into queued commands.
type CommandsHandler struct {
	commands Commands
}

// NewCommandsHandler creates a new commands handler.
func NewCommandsHandler(commands Commands) *CommandsHandler {
	return &CommandsHandler{commands: commands}
}

// teamsRequest mirrors the OpenAPI schema for POST /teams.
type teamsRequest struct {
	Teams *int `json:"teams"`
}

func (t teamsRequest) validate() error {
	switch {
	case t.Teams == nil:
		return errors.New("missing teams")
	case *t.Teams < 1 || *t.Teams > maxTeams:
		return fmt.Errorf("teams must be between 1 and %d", maxTeams)
	}
	return nil
}

// HandleSetup handles POST /setup.
func (h *CommandsHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.submit(w, r, "api.setup", model.Command{Kind: model.CommandSetup})
}

// HandleStart handles POST /start.
func (h *CommandsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.submit(w, r, "api.start", model.Command{Kind: model.CommandStart})
}

// HandleTeams handles POST /teams and POST /team.
func (h *CommandsHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.teams"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req teamsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxCommandBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.submit(w, r, op, model.Command{Kind: model.CommandTeams, Teams: *req.Teams})
}

// HandleCommand handles POST /command with a legacy text body.
func (h *CommandsHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	const op = "api.command"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	cmd, ok := model.ParseCommand(string(body))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("invalid command")))
		return
	}
	if cmd.Kind == model.CommandTeams && (cmd.Teams < 1 || cmd.Teams > maxTeams) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("teams must be between 1 and %d", maxTeams)))
		return
	}
	h.submit(w, r, op, cmd)
}

func (h *CommandsHandler) submit(w http.ResponseWriter, r *http.Request, op string, cmd model.Command) {
	err := h.commands.Enqueue(r.Context(), cmd)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Command: cmd.Kind.String(), Teams: cmd.Teams})
	case errors.Is(err, queue.ErrQueueClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	}
}
