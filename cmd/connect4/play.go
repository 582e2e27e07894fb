package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-connect4/internal/config"
	"github.com/vovakirdan/tui-connect4/internal/core"
	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
	"github.com/vovakirdan/tui-connect4/internal/platform/tui"
)

var (
	flagLogFile       string
	flagScreenshotDir string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in this terminal",
	Long: `Start a hot-seat game: both players share the keyboard, Red moves first.

Controls:
  Left/Right, H/L, A/D  - Move the drop cursor
  Space/Enter/Down      - Drop a token in the cursor column
  1-7                   - Drop a token in that column
  R                     - New game
  ?                     - Show the rules
  Ctrl+S                - Save the board as text
  Q/Esc/Ctrl+C          - Quit

Examples:
  connect4 play
  connect4 play --config ./my-connect4.yaml
  connect4 play --log-file /tmp/connect4.log --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the terminal is taken by the game)")
	playCmd.Flags().StringVar(&flagScreenshotDir, "screenshots", "~/.connect4/screenshots", "Directory for Ctrl+S board captures (empty disables)")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size
	runtime := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		runtime.ScreenW = w
		runtime.ScreenH = h
	}

	// The game owns the terminal, so logs only go to an explicit file.
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg)

	shotDir, err := config.ExpandHome(flagScreenshotDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		shotDir = ""
	}
	if shotDir != "" {
		shotDir = filepath.Clean(shotDir)
	}

	opts := tui.Options{
		Theme:         connect4.ThemeFromConfig(cfg),
		ShowHelp:      cfg.UI.ShowHelp,
		Logger:        logger,
		ScreenshotDir: shotDir,
	}

	if err := tui.Run(runtime, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
