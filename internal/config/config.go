// Package config provides YAML-based configuration loading for the
// Connect Four terminal, SSH and HTTP front ends.
package config

import "time"

// Config contains all configuration for the connect4 binary.
type Config struct {
	Players PlayersConfig `yaml:"players"`
	UI      UIConfig      `yaml:"ui"`
	SSH     SSHConfig     `yaml:"ssh"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
}

// PlayersConfig defines how the two sides are presented.
// Red always moves first.
type PlayersConfig struct {
	Red    PlayerConfig `yaml:"red"`
	Yellow PlayerConfig `yaml:"yellow"`
}

// PlayerConfig defines one side's display name, token color and symbol.
type PlayerConfig struct {
	Name   string `yaml:"name"`
	Color  string `yaml:"color"`  // core color name, e.g. "red", "bright_yellow"
	Symbol string `yaml:"symbol"` // single character drawn in the cell
}

// UIConfig toggles presentation details of the board.
type UIConfig struct {
	BoardColor      string `yaml:"board_color"`
	ShowLastMove    bool   `yaml:"show_last_move"`
	HighlightWinner bool   `yaml:"highlight_winner"`
	ShowHelp        bool   `yaml:"show_help"` // key help footer
}

// SSHConfig defines the SSH server started by "connect4 serve".
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"` // empty = ~/.connect4/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// HTTPConfig defines the HTTP/WebSocket server started by "connect4 web".
type HTTPConfig struct {
	Address        string        `yaml:"address"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // empty = same origin only
	MaxSessions    int           `yaml:"max_sessions"`
	SessionTTL     time.Duration `yaml:"session_ttl"`

	// WebSocket push queues. Updates that do not fit are dropped.
	BroadcastBuffer int `yaml:"broadcast_buffer"` // state changes waiting for the hub
	ClientBuffer    int `yaml:"client_buffer"`    // messages waiting per connection
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
