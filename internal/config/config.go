// Package config defines daemon configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional file and MJOY_ environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

// Linux input event codes used by the default button maps.
const (
	btnTrigger = 0x120
	btnThumb   = 0x121
	btnThumb2  = 0x122
	btnTop     = 0x123
	btnTop2    = 0x124
	btnPinkie  = 0x125
	btnBase3   = 0x128
	btnBase4   = 0x129
	btnSouth   = 0x130
	btnEast    = 0x131
	btnNorth   = 0x133
	btnWest    = 0x134
	btnTL      = 0x136
	btnTR      = 0x137
	btnSelect  = 0x13a
	btnStart   = 0x13b
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the operator command API listen address.
	Addr string `koanf:"addr"`

	// PathCommonNameMaxLength is the column width for names in the startup table.
	PathCommonNameMaxLength int `koanf:"path_common_name_max_length"`

	// HatOnlyPlayers report only directional feedback while a game is active.
	HatOnlyPlayers []string `koanf:"hat_only_players"`

	// NumberOfMultiPortControllersToUse caps the per-port controller index accepted
	// during discovery. Entries with index >= this value are ignored.
	NumberOfMultiPortControllersToUse int `koanf:"number_of_multi_port_controllers_to_use"`

	// ControllerBindingsFile stores the minimal path to name bindings.
	ControllerBindingsFile string `koanf:"controller_bindings_file"`

	// BindingNamesFile lists candidate names, one per line, consumed from the end.
	BindingNamesFile string `koanf:"binding_names_file"`

	// TeamLockFile stores the team roster.
	TeamLockFile string `koanf:"team_lock_file"`

	// DefaultTeamName names the single team created when no lock file exists.
	DefaultTeamName string `koanf:"default_team_name"`

	// StrictBindings turns a missing or corrupt bindings file into a startup error
	// instead of an empty table.
	StrictBindings bool `koanf:"strict_bindings"`

	// DeviceDir is the stable by-path input directory.
	DeviceDir string `koanf:"device_dir"`

	// EventDir holds the kernel event nodes (eventN).
	EventDir string `koanf:"event_dir"`

	// PollIntervalMS is the idle sleep between loop iterations with no pending event.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// CommandQueueSize bounds the operator command queue.
	CommandQueueSize int `koanf:"command_queue_size"`

	// Buttons maps logical buttons (accept, decline, x, y, l, r, select, start)
	// to Linux key codes.
	Buttons map[string][]int `koanf:"buttons"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                          "info",
		Addr:                              ":5001",
		PathCommonNameMaxLength:           15,
		HatOnlyPlayers:                    []string{},
		NumberOfMultiPortControllersToUse: 4,
		ControllerBindingsFile:            "bindings.json",
		BindingNamesFile:                  "names.txt",
		TeamLockFile:                      "teamlock.json",
		DefaultTeamName:                   "Etherial Narwhals",
		DeviceDir:                         "/dev/input/by-path",
		EventDir:                          "/dev/input",
		PollIntervalMS:                    5,
		CommandQueueSize:                  64,
		Buttons: map[string][]int{
			"accept":  {btnEast, btnThumb},
			"decline": {btnSouth, btnThumb2},
			"x":       {btnNorth, btnTrigger},
			"y":       {btnWest, btnTop},
			"l":       {btnTL, btnTop2},
			"r":       {btnTR, btnPinkie},
			"select":  {btnSelect, btnBase3},
			"start":   {btnStart, btnBase4},
		},
	}
}
