package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-connect4/internal/platform/httpapi"
)

var (
	flagHTTPAddr string
	flagOrigins  []string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket game server",
	Long: `Start an HTTP server hosting independent games behind a JSON API.
Clients watching /ws/games/{id} receive every state change.

Endpoints:
  POST   /api/games            - Create a game
  GET    /api/games            - List games
  GET    /api/games/{id}       - Get a game
  DELETE /api/games/{id}       - Delete a game
  POST   /api/games/{id}/drop  - Drop a token: {"column": 0..6}
  POST   /api/games/{id}/reset - Start over
  GET    /ws/games/{id}        - WebSocket state stream
  GET    /health               - Health check

Examples:
  connect4 web
  connect4 web --http :8080
  connect4 web --origin https://play.example.com`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (host:port), overrides http.address")
	webCmd.Flags().StringSliceVar(&flagOrigins, "origin", nil, "Allowed WebSocket origin, repeatable (\"*\" allows any)")
}

func runWeb(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagHTTPAddr != "" {
		cfg.HTTP.Address = flagHTTPAddr
	}
	if len(flagOrigins) > 0 {
		cfg.HTTP.AllowedOrigins = flagOrigins
	}

	logger := newLogger(os.Stderr, cfg)
	server := httpapi.NewServer(cfg.HTTP, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
