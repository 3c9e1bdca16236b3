package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilegrid/internal/colony"
	"github.com/vovakirdan/tilegrid/internal/config"
	"github.com/vovakirdan/tilegrid/internal/ledger"
	"github.com/vovakirdan/tilegrid/internal/tiles"
)

// loadConfig reads the colony config and applies flag overrides.
func loadConfig() (config.ColonyConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, config.ParseDifficultyPreset(flagDifficulty))
	config.Env{TickRate: flagFPS, LogLevel: flagLogLevel}.Apply(&cfg)
	return cfg, nil
}

// newLogger creates a logger writing to w at the configured level.
func newLogger(w io.Writer, level, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	} else if level != "" {
		logger.Warn("unknown log level, using info", "level", level)
	}
	return logger
}

// colonyBuilder prepares the parts shared by every colony built from cfg.
type colonyBuilder struct {
	cfg     config.ColonyConfig
	terrain *tiles.Map
	journal colony.Journal
}

func newColonyBuilder(cfg config.ColonyConfig, journal colony.Journal) (*colonyBuilder, error) {
	terrain, err := cfg.TileMap()
	if err != nil {
		return nil, err
	}
	if flagMap != "" {
		layout := terrain.Layout
		if terrain, err = tiles.LoadFile(flagMap); err != nil {
			return nil, err
		}
		terrain.Layout = layout
	}
	if _, err := cfg.Catalog(); err != nil {
		return nil, err
	}
	return &colonyBuilder{cfg: cfg, terrain: terrain, journal: journal}, nil
}

// build creates a colony with its own ledger and catalog. Sessions share the
// terrain, which is never written after loading.
func (b *colonyBuilder) build(session string, logger *log.Logger) (*colony.Colony, error) {
	catalog, err := b.cfg.Catalog()
	if err != nil {
		return nil, err
	}
	return colony.New(b.terrain, catalog, ledger.New(b.cfg.Opening()), colony.Options{
		Session: session,
		Logger:  logger,
		Journal: b.journal,
	})
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
