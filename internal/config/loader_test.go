package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	got := embeddedDefault()
	want := Default()

	if got.Players != want.Players {
		t.Errorf("players: got %+v, want %+v", got.Players, want.Players)
	}
	if got.UI != want.UI {
		t.Errorf("ui: got %+v, want %+v", got.UI, want.UI)
	}
	if got.SSH != want.SSH {
		t.Errorf("ssh: got %+v, want %+v", got.SSH, want.SSH)
	}
	if got.HTTP.Address != want.HTTP.Address || got.HTTP.MaxSessions != want.HTTP.MaxSessions || got.HTTP.SessionTTL != want.HTTP.SessionTTL ||
		got.HTTP.BroadcastBuffer != want.HTTP.BroadcastBuffer || got.HTTP.ClientBuffer != want.HTTP.ClientBuffer {
		t.Errorf("http: got %+v, want %+v", got.HTTP, want.HTTP)
	}
	if got.Log != want.Log {
		t.Errorf("log: got %+v, want %+v", got.Log, want.Log)
	}
}

func TestLoadCustomPathOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
players:
  red:
    name: Alice
ssh:
  idle_timeout: 5m
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.Players.Red.Name != "Alice" {
		t.Errorf("red name = %q, want Alice", cfg.Players.Red.Name)
	}
	// Untouched keys keep their defaults.
	if cfg.Players.Red.Color != "red" || cfg.Players.Red.Symbol != "X" {
		t.Errorf("red color/symbol = %q/%q, want red/X", cfg.Players.Red.Color, cfg.Players.Red.Symbol)
	}
	if cfg.Players.Yellow.Name != "Yellow" {
		t.Errorf("yellow name = %q, want Yellow", cfg.Players.Yellow.Name)
	}
	if cfg.SSH.IdleTimeout != 5*time.Minute {
		t.Errorf("idle timeout = %v, want 5m", cfg.SSH.IdleTimeout)
	}
	if cfg.SSH.Address != ":23234" {
		t.Errorf("ssh address = %q, want default", cfg.SSH.Address)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() of a missing explicit path should fail")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error = %v, want read failure", err)
	}
}

func TestLoadMalformedCustomPath(t *testing.T) {
	path := writeConfig(t, "players: [not, a, map")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("Load() = %v, want parse failure", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown color",
			mutate:  func(c *Config) { c.Players.Red.Color = "chartreuse" },
			wantErr: "players.red.color",
		},
		{
			name:    "multi-character symbol",
			mutate:  func(c *Config) { c.Players.Yellow.Symbol = "OO" },
			wantErr: "players.yellow.symbol",
		},
		{
			name:    "same symbols",
			mutate:  func(c *Config) { c.Players.Yellow.Symbol = "X" },
			wantErr: "different symbols",
		},
		{
			name:    "empty name",
			mutate:  func(c *Config) { c.Players.Red.Name = "  " },
			wantErr: "players.red.name",
		},
		{
			name:    "bad board color",
			mutate:  func(c *Config) { c.UI.BoardColor = "plaid" },
			wantErr: "ui.board_color",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "log.level",
		},
		{
			name:    "negative idle timeout",
			mutate:  func(c *Config) { c.SSH.IdleTimeout = -time.Second },
			wantErr: "ssh.idle_timeout",
		},
		{
			name:    "negative max sessions",
			mutate:  func(c *Config) { c.HTTP.MaxSessions = -1 },
			wantErr: "http.max_sessions",
		},
		{
			name:    "empty broadcast buffer",
			mutate:  func(c *Config) { c.HTTP.BroadcastBuffer = 0 },
			wantErr: "http.broadcast_buffer",
		},
		{
			name:    "empty client buffer",
			mutate:  func(c *Config) { c.HTTP.ClientBuffer = 0 },
			wantErr: "http.client_buffer",
		},
		{
			name:   "multibyte symbol is one character",
			mutate: func(c *Config) { c.Players.Red.Symbol = "●" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: shouting\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should validate the loaded file")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/.connect4/host_key")
	if err != nil {
		t.Fatalf("ExpandHome() = %v", err)
	}
	if want := filepath.Join(home, ".connect4", "host_key"); got != want {
		t.Errorf("ExpandHome() = %q, want %q", got, want)
	}

	if got, _ := ExpandHome("/etc/key"); got != "/etc/key" {
		t.Errorf("absolute path should be untouched, got %q", got)
	}
}
