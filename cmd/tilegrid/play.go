package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilegrid/internal/colony"
	"github.com/vovakirdan/tilegrid/internal/core"
	"github.com/vovakirdan/tilegrid/internal/platform/tui"
	"github.com/vovakirdan/tilegrid/internal/storage"
)

var (
	flagLogFile   string
	flagNoJournal bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Build a colony in this terminal",
	Long: `Start a colony on the configured map.

Controls:
  Arrows/hjkl  - Move the cursor
  1-9, Tab     - Pick a blueprint
  Enter/Space  - Build the picked blueprint at the cursor
  Mouse        - Move the cursor, left click builds, right click cancels
  X            - Demolish the structure under the cursor (half refund)
  Esc          - Stop placing
  ?            - Show all keys
  Q/Ctrl+C     - Quit

Every placement is written to the journal (see 'tilegrid history').

Examples:
  tilegrid play
  tilegrid play --difficulty easy
  tilegrid play --config ./my-colony.yaml --log-file /tmp/tilegrid.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the screen is busy with the map)")
	playCmd.Flags().BoolVar(&flagNoJournal, "no-journal", false, "Do not record placements")
}

func runPlay(_ *cobra.Command, _ []string) {
	if err := play(); err != nil {
		fail("%v", err)
	}
}

func play() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg.Game.LogLevel, "tilegrid")

	var journal colony.Journal
	if !flagNoJournal {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open journal: %v\n", err)
		} else {
			defer store.Close()
			journal = store
		}
	}

	builder, err := newColonyBuilder(cfg, journal)
	if err != nil {
		return err
	}
	c, err := builder.build("", logger)
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Game.TickRate,
	}

	if err := tui.Run(c, rc); err != nil {
		return fmt.Errorf("running colony: %w", err)
	}

	fmt.Println(c)
	return nil
}
