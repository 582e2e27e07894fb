// connect4 is a two-player Connect Four game for the terminal.
//
// Usage:
//
//	connect4 play            - Play a hot-seat game in this terminal
//	connect4 serve           - Start SSH server for remote play
//	connect4 web             - Start the HTTP/WebSocket game server
//	connect4 replay <moves>  - Print the board after a move sequence
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.connect4/config.yaml)
//	--log-level <level> - Override log.level from the config
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-connect4/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "connect4",
	Short: "Connect Four - drop tokens, get four in a row",
	Long: `Connect Four for two players on one keyboard, over SSH or over HTTP.

Available commands:
  play     - Play a game in this terminal
  serve    - Start SSH server for remote play
  web      - Start HTTP/WebSocket server
  replay   - Print the board after a move sequence

Examples:
  connect4 play
  connect4 serve --ssh :2222
  connect4 web --http :9000
  connect4 replay 4455667`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig loads the configuration and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, cfg config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           cfg.LogLevel(),
	})
}
