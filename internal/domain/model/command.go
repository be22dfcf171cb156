package model

import (
	"encoding/json"
	"strings"
)

// CommandKind enumerates operator commands.
type CommandKind int

// Operator commands.
const (
	CommandSetup CommandKind = iota + 1
	CommandStart
	CommandTeams
)

func (k CommandKind) String() string {
	switch k {
	case CommandSetup:
		return "setup"
	case CommandStart:
		return "start"
	case CommandTeams:
		return "teams"
	default:
		return "unknown"
	}
}

// Command is an operator instruction delivered to the session loop.
type Command struct {
	Kind  CommandKind
	Teams int // only for CommandTeams
}

// ParseCommand reads the legacy text protocol: a request containing "setup"
// or "start", or a JSON object carrying an integer "teams" field.
func ParseCommand(text string) (Command, bool) {
	switch {
	case strings.Contains(text, "setup"):
		return Command{Kind: CommandSetup}, true
	case strings.Contains(text, "start"):
		return Command{Kind: CommandStart}, true
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return Command{}, false
	}
	var body struct {
		Teams *json.Number `json:"teams"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &body); err != nil || body.Teams == nil {
		return Command{}, false
	}
	n, err := body.Teams.Int64()
	if err != nil || n < 0 {
		return Command{}, false
	}
	return Command{Kind: CommandTeams, Teams: int(n)}, true
}
