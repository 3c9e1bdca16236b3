// tilegrid is a terminal colony builder: place structures on a tile map,
// connect them into power networks and watch the economy run.
//
// Usage:
//
//	tilegrid play                - Build a colony in this terminal
//	tilegrid serve               - Start SSH server, one colony per session
//	tilegrid blueprints          - List what can be built
//	tilegrid footprint <w> <h>   - Show the cells a w×h structure occupies
//	tilegrid history             - Browse the placement journal
//
// Global flags (defaults come from TILEGRID_* environment variables):
//
//	--config <path>      - Colony config YAML (TILEGRID_CONFIG)
//	--db <path>          - Journal database (TILEGRID_DB, default ~/.tilegrid/journal.db)
//	--fps <rate>         - Economy tick rate (TILEGRID_FPS)
//	--log-level <level>  - debug, info, warn, error (TILEGRID_LOG_LEVEL)
//	--difficulty <name>  - easy, normal, hard (TILEGRID_DIFFICULTY)
//	--map <path>         - Map YAML replacing the configured map
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilegrid/internal/config"
)

var (
	// Global flags
	flagConfig     string
	flagDBPath     string
	flagFPS        int
	flagLogLevel   string
	flagDifficulty string
	flagMap        string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilegrid",
	Short: "tilegrid - build a colony on a tile grid in your terminal",
	Long: `tilegrid is a terminal colony builder. Structures occupy a footprint of
tiles, touch their neighbours through a one-tile border and join power
networks when they do.

Available commands:
  play        - Build a colony in this terminal
  serve       - Start an SSH server, one colony per session
  blueprints  - List what can be built
  footprint   - Show the footprint and border of a w×h structure
  history     - Browse the placement journal

Examples:
  tilegrid play
  tilegrid play --difficulty hard --map ./island.yaml
  tilegrid serve --ssh :2222
  tilegrid footprint 2 2
  tilegrid history --plain`,
	SilenceUsage: true,
}

func init() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring environment: %v\n", err)
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", env.ConfigPath, "Path to colony config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", env.DBPath, "Path to placement journal database")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", env.TickRate, "Economy tick rate (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", env.LogLevel, "Log level (empty = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", env.Difficulty, "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagMap, "map", "", "Path to a map YAML replacing the configured map")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(blueprintsCmd)
	rootCmd.AddCommand(footprintCmd)
	rootCmd.AddCommand(historyCmd)
}
