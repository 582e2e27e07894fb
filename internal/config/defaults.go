package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/connect4.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches defaults/connect4.yaml
// and is used when the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Players: PlayersConfig{
			Red: PlayerConfig{
				Name:   "Red",
				Color:  "red",
				Symbol: "X",
			},
			Yellow: PlayerConfig{
				Name:   "Yellow",
				Color:  "yellow",
				Symbol: "O",
			},
		},
		UI: UIConfig{
			BoardColor:      "blue",
			ShowLastMove:    true,
			HighlightWinner: true,
			ShowHelp:        true,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		HTTP: HTTPConfig{
			Address:     ":9000",
			MaxSessions: 1000,
			SessionTTL:  2 * time.Hour,

			BroadcastBuffer: 64,
			ClientBuffer:    16,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
