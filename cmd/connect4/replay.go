package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-connect4/internal/games/connect4"
)

var flagPlain bool

var replayCmd = &cobra.Command{
	Use:   "replay <moves>",
	Short: "Print the board after a move sequence",
	Long: `Play a move sequence on a fresh board and print the result.

Moves are 1-based column digits, optionally separated by commas or spaces.
Red plays the first move. An illegal move stops the replay: the board
before it is printed and the command exits with status 1.

Examples:
  connect4 replay 4455667
  connect4 replay "4, 4, 5, 5"
  connect4 replay --plain 1212121`,
	Args: cobra.MinimumNArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the bare R/Y/. grid")
}

func runReplay(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	moves, err := connect4.ParseMoves(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	state, replayErr := connect4.Replay(moves)

	if flagPlain {
		fmt.Println(state.Board().String())
	} else {
		fmt.Println(connect4.Load(state, connect4.ThemeFromConfig(cfg)).RenderText())
	}
	fmt.Printf("\nMoves: %s\n", connect4.FormatMoves(moves[:state.Moves()]))
	fmt.Printf("Status: %s\n", state.Status())

	if replayErr != nil {
		switch {
		case errors.Is(replayErr, connect4.ErrGameOver):
			fmt.Fprintf(os.Stderr, "Error: %v (moves after the end of the game)\n", replayErr)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", replayErr)
		}
		os.Exit(1)
	}
}
