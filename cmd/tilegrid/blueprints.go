package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilegrid/internal/blueprint"
	"github.com/vovakirdan/tilegrid/internal/ledger"
)

var blueprintsCmd = &cobra.Command{
	Use:   "blueprints",
	Short: "List what can be built",
	Long:  `Shows every blueprint in the colony config with its size, cost, income and allowed tiles.`,
	Args:  cobra.NoArgs,
	Run:   runBlueprints,
}

func runBlueprints(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		fail("%v", err)
	}

	list := catalog.List()
	if len(list) == 0 {
		fmt.Println("No blueprints available.")
		return
	}

	maxIDLen := 2 // "ID" header
	for _, b := range list {
		maxIDLen = max(maxIDLen, len(b.ID))
	}

	fmt.Printf("  %-*s  %-4s  %-14s %-8s  %-5s  %-14s %-14s %s\n",
		maxIDLen, "ID", "", "Name", "Kind", "Size", "Cost", "Income", "Tiles")
	for _, b := range list {
		fmt.Printf("  %-*s  %-4c  %-14s %-8s  %-5s  %-14s %-14s %s\n",
			maxIDLen, b.ID, b.Glyph, b.Name, b.Kind, b.Size,
			amounts(b.Cost, ""), amounts(b.Income, "/s"), placeable(b))
	}

	fmt.Println()
	fmt.Println("Run 'tilegrid footprint <w> <h>' to see how a size is laid out.")
}

func amounts(m map[ledger.Kind]float64, suffix string) string {
	if len(m) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, fmt.Sprintf("%g %s%s", v, k, suffix))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func placeable(b blueprint.Blueprint) string {
	if len(b.Placeable) == 0 {
		return "any"
	}
	names := make([]string, len(b.Placeable))
	for i, t := range b.Placeable {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
