package model

import (
	"slices"
	"strconv"
)

// Team is one roster entry. OutIndex is stored but not interpreted.
type Team struct {
	Name     string   `json:"name"`
	Players  []string `json:"players"`
	OutIndex uint32   `json:"out_index"`
}

// TeamLock is the persisted roster. A player name appears in at most one
// team's Players.
type TeamLock struct {
	Teams []Team `json:"teams"`
}

// NewTeamLock returns a roster with a single empty team.
func NewTeamLock(defaultTeam string) TeamLock {
	return TeamLock{Teams: []Team{{Name: defaultTeam, Players: []string{}}}}
}

// TeamOf returns the index of the team holding player.
func (l *TeamLock) TeamOf(player string) (int, bool) {
	for i := range l.Teams {
		if slices.Contains(l.Teams[i].Players, player) {
			return i, true
		}
	}
	return 0, false
}

// Remove drops player from every team. Returns true if anything was removed.
func (l *TeamLock) Remove(player string) bool {
	removed := false
	for i := range l.Teams {
		before := len(l.Teams[i].Players)
		l.Teams[i].Players = slices.DeleteFunc(l.Teams[i].Players, func(p string) bool { return p == player })
		removed = removed || len(l.Teams[i].Players) != before
	}
	return removed
}

// Add appends player to team idx after removing them elsewhere.
func (l *TeamLock) Add(idx int, player string) bool {
	if idx < 0 || idx >= len(l.Teams) {
		return false
	}
	l.Remove(player)
	l.Teams[idx].Players = append(l.Teams[idx].Players, player)
	return true
}

// Prune removes players for which keep returns false and returns them in
// roster order.
func (l *TeamLock) Prune(keep func(player string) bool) []string {
	var missing []string
	for i := range l.Teams {
		kept := l.Teams[i].Players[:0]
		for _, p := range l.Teams[i].Players {
			if keep(p) {
				kept = append(kept, p)
				continue
			}
			missing = append(missing, p)
		}
		l.Teams[i].Players = kept
	}
	return missing
}

// Resize grows or shrinks the roster to n teams. New teams are named
// "Team k"; players of dropped teams become unassigned.
func (l *TeamLock) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(l.Teams) {
		l.Teams = l.Teams[:n]
		return
	}
	for k := len(l.Teams); k < n; k++ {
		l.Teams = append(l.Teams, Team{Name: "Team " + strconv.Itoa(k+1), Players: []string{}})
	}
}

// PlayerCount returns the number of assigned players.
func (l *TeamLock) PlayerCount() int {
	n := 0
	for _, t := range l.Teams {
		n += len(t.Players)
	}
	return n
}

// Clone returns a deep copy.
func (l TeamLock) Clone() TeamLock {
	out := TeamLock{Teams: make([]Team, len(l.Teams))}
	for i, t := range l.Teams {
		t.Players = slices.Clone(t.Players)
		if t.Players == nil {
			t.Players = []string{}
		}
		out.Teams[i] = t
	}
	return out
}

// Equal reports whether both rosters hold the same teams and players in the
// same order.
func (l TeamLock) Equal(o TeamLock) bool {
	return slices.EqualFunc(l.Teams, o.Teams, func(a, b Team) bool {
		return a.Name == b.Name && a.OutIndex == b.OutIndex && slices.Equal(a.Players, b.Players)
	})
}
