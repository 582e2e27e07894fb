package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-connect4/internal/core"
)

// FileName is the config file name looked up in the search directories.
const FileName = "connect4.yaml"

// Load loads the configuration.
// Search order: customPath -> ~/.connect4/config.yaml -> ./configs/connect4.yaml -> embedded default.
//
// A file only needs the keys it changes; everything else keeps the default.
// An explicit customPath must exist and parse. Files found in the search
// directories are skipped when they cannot be read or parsed.
func Load(customPath string) (Config, error) {
	base := embeddedDefault()

	if customPath != "" {
		cfg, err := loadFile(customPath, base)
		if err != nil {
			return Config{}, err
		}
		return cfg, cfg.Validate()
	}

	candidates := []string{userConfigPath(), filepath.Join("configs", FileName)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if cfg, err := loadFile(path, base); err == nil {
			return cfg, cfg.Validate()
		}
	}

	return base, base.Validate()
}

// loadFile decodes the YAML file at path on top of base.
func loadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// embeddedDefault parses the embedded default YAML, falling back to Default().
func embeddedDefault() Config {
	cfg := Default()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// userConfigPath returns ~/.connect4/config.yaml, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".connect4", "config.yaml")
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Validate reports every invalid setting in one joined error.
func (c Config) Validate() error {
	var errs []error

	players := []struct {
		side string
		p    PlayerConfig
	}{
		{"red", c.Players.Red},
		{"yellow", c.Players.Yellow},
	}
	for _, pl := range players {
		if strings.TrimSpace(pl.p.Name) == "" {
			errs = append(errs, fmt.Errorf("players.%s.name must not be empty", pl.side))
		}
		if _, ok := core.ParseColor(pl.p.Color); !ok {
			errs = append(errs, fmt.Errorf("players.%s.color: unknown color %q", pl.side, pl.p.Color))
		}
		if utf8.RuneCountInString(pl.p.Symbol) != 1 {
			errs = append(errs, fmt.Errorf("players.%s.symbol must be a single character, got %q", pl.side, pl.p.Symbol))
		}
	}
	if c.Players.Red.Symbol == c.Players.Yellow.Symbol {
		errs = append(errs, fmt.Errorf("players: red and yellow must use different symbols"))
	}

	if _, ok := core.ParseColor(c.UI.BoardColor); !ok {
		errs = append(errs, fmt.Errorf("ui.board_color: unknown color %q", c.UI.BoardColor))
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if c.SSH.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("ssh.idle_timeout must not be negative"))
	}
	if c.HTTP.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("http.max_sessions must not be negative"))
	}
	if c.HTTP.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("http.session_ttl must not be negative"))
	}
	if c.HTTP.BroadcastBuffer < 1 {
		errs = append(errs, fmt.Errorf("http.broadcast_buffer must be at least 1"))
	}
	if c.HTTP.ClientBuffer < 1 {
		errs = append(errs, fmt.Errorf("http.client_buffer must be at least 1"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
