package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilegrid/internal/colony"
	"github.com/vovakirdan/tilegrid/internal/platform/tui"
	"github.com/vovakirdan/tilegrid/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tilegrid SSH server",
	Long: `Start an SSH server where every connection builds its own colony.

Colonies are not shared and vanish when the session ends; the placement
journal is shared by all sessions.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tilegrid/host_key

Examples:
  tilegrid serve                           # Listen on :23234 with auto-generated key
  tilegrid serve --ssh :2222               # Listen on port 2222
  tilegrid serve --host-key ./my_host_key  # Use specific host key
  tilegrid serve --db ./journal.db         # Use specific journal

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	if err := serve(); err != nil {
		fail("%v", err)
	}
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Game.LogLevel, "tilegrid-ssh")

	var journal colony.Journal
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open journal", "error", err)
	} else {
		defer store.Close()
		journal = store
	}

	builder, err := newColonyBuilder(cfg, journal)
	if err != nil {
		return err
	}

	sshCfg := tui.DefaultSSHServerConfig()
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagIdleTimeout > 0 {
		sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	if cfg.Game.TickRate > 0 {
		sshCfg.TickRate = cfg.Game.TickRate
	}
	sshCfg.HostKeyPath = flagHostKey

	server, err := tui.NewSSHServer(sshCfg, builder.build, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting tilegrid SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
