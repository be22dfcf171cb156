package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/okian/mjoy/internal/domain/model"
	"github.com/okian/mjoy/pkg/logger"
)

// TeamLocks reads and writes the roster file.
type TeamLocks struct {
	path        string
	defaultTeam string
	logger      logger.Logger
}

// NewTeamLocks returns a store for the lock file at path. defaultTeam names
// the single team created when the file does not exist.
func NewTeamLocks(path, defaultTeam string, l logger.Logger) *TeamLocks {
	if l == nil {
		l = logger.Get().Named("teamlock")
	}
	return &TeamLocks{path: path, defaultTeam: defaultTeam, logger: l}
}

// Path returns the backing file.
func (s *TeamLocks) Path() string { return s.path }

// Load reads the roster. A missing or corrupt file yields a roster with one
// empty default team.
func (s *TeamLocks) Load(ctx context.Context) model.TeamLock {
	var lock model.TeamLock
	err := readJSON(s.path, &lock)
	switch {
	case err == nil:
		for i := range lock.Teams {
			if lock.Teams[i].Players == nil {
				lock.Teams[i].Players = []string{}
			}
		}
		return lock
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info(ctx, "no team lock file, creating default team",
			logger.String("path", s.path),
			logger.String("team", s.defaultTeam),
		)
	default:
		s.logger.Warn(ctx, "unreadable team lock file, creating default team",
			logger.String("path", s.path),
			logger.Error(fmt.Errorf("%w: %w", ErrLoadLock, err)),
		)
	}
	return model.NewTeamLock(s.defaultTeam)
}

// Save rewrites the lock file.
func (s *TeamLocks) Save(_ context.Context, lock model.TeamLock) error {
	return writeJSON(s.path, "teamlock", lock)
}
