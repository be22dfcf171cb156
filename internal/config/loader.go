package config

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/mjoy/internal/domain/input"
)

// EnvPrefix prefixes every environment override, e.g. MJOY_ADDR.
const EnvPrefix = "MJOY_"

// EnvConfigFile names the variable holding the optional config file path.
const EnvConfigFile = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file if MJOY_CONFIG is set (YAML, which also accepts the JSON config.json layout)
//  3. env (prefix MJOY_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvConfigFile))
}

// LoadFile is Load with an explicit file path. An empty path skips the file layer.
func LoadFile(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MJOY_POLL_INTERVAL_MS -> poll_interval_ms (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ControllerBindingsFile == "":
		return fmt.Errorf("%w: controller_bindings_file must not be empty", ErrInvalidConfig)
	case c.BindingNamesFile == "":
		return fmt.Errorf("%w: binding_names_file must not be empty", ErrInvalidConfig)
	case c.TeamLockFile == "":
		return fmt.Errorf("%w: team_lock_file must not be empty", ErrInvalidConfig)
	case c.DeviceDir == "":
		return fmt.Errorf("%w: device_dir must not be empty", ErrInvalidConfig)
	case c.NumberOfMultiPortControllersToUse < 1:
		return fmt.Errorf("%w: number_of_multi_port_controllers_to_use must be at least 1", ErrInvalidConfig)
	case c.CommandQueueSize < 1:
		return fmt.Errorf("%w: command_queue_size must be at least 1", ErrInvalidConfig)
	case c.PollIntervalMS < 1:
		return fmt.Errorf("%w: poll_interval_ms must be at least 1", ErrInvalidConfig)
	}
	for name := range c.Buttons {
		if _, ok := input.ControlByName(name); !ok {
			return fmt.Errorf("%w: buttons: %w: %q", ErrInvalidConfig, ErrUnknownButton, name)
		}
	}
	return nil
}

// IsHatOnly reports whether player only uses directional input.
func (c *Config) IsHatOnly(player string) bool {
	return slices.Contains(c.HatOnlyPlayers, player)
}
