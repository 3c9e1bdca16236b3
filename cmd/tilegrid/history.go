package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilegrid/internal/platform/tui"
	"github.com/vovakirdan/tilegrid/internal/storage"
)

var (
	flagHistoryPlain   bool
	flagHistoryLimit   int
	flagHistoryClear   bool
	flagHistorySession string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the placement journal",
	Long: `Shows the structures built and demolished across all sessions.

By default opens an interactive table. Use --plain for plain text output,
or --session to print one session's rows in the order they happened (the
session ID is shown in the title bar while playing).

Examples:
  tilegrid history
  tilegrid history --plain --limit 50
  tilegrid history --session alice-1f3a9c2e
  tilegrid history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print rows instead of opening the browser")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Rows to print with --plain")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every journal row")
	historyCmd.Flags().StringVar(&flagHistorySession, "session", "", "Print the rows of one session, oldest first")
}

func runHistory(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("%v", err)
	}
	defer store.Close()

	switch {
	case flagHistoryClear:
		err = store.Clear()
		if err == nil {
			fmt.Println("Journal cleared.")
		}
	case flagHistorySession != "":
		err = printSession(os.Stdout, store, flagHistorySession)
	case flagHistoryPlain:
		err = printHistory(os.Stdout, store, flagHistoryLimit)
	default:
		width, height := 100, 30
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		err = tui.RunHistory(store, width, height)
	}

	if err != nil {
		store.Close()
		fail("%v", err)
	}
}

func printEntries(w io.Writer, entries []storage.Entry) {
	fmt.Fprintf(w, "  %-16s %-8s %-12s %-10s %-6s %s\n", "When", "Event", "Blueprint", "Anchor", "Size", "Session")
	for _, e := range entries {
		fmt.Fprintf(w, "  %-16s %-8s %-12s %-10s %-6s %s\n",
			e.CreatedAt.Format("Jan 02 15:04:05"),
			e.Event, e.Tag,
			fmt.Sprintf("(%d,%d)", e.X, e.Y),
			fmt.Sprintf("%dx%d", e.W, e.H),
			e.Session,
		)
	}
}

func printHistory(w io.Writer, store *storage.Store, limit int) error {
	entries, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "Nothing built yet.")
		return nil
	}
	printEntries(w, entries)

	counts, err := store.CountsByTag()
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Standing structures:")
	for _, c := range counts {
		fmt.Fprintf(w, "  %-12s %d (built %d, demolished %d)\n", c.Tag, c.Standing(), c.Created, c.Destroyed)
	}
	return nil
}

func printSession(w io.Writer, store *storage.Store, session string) error {
	entries, err := store.SessionHistory(session)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "No rows for session %s.\n", session)
		return nil
	}
	printEntries(w, entries)

	standing := 0
	for _, e := range entries {
		if e.Event == "create" {
			standing++
		} else {
			standing--
		}
	}
	fmt.Fprintf(w, "\n%d rows, %d structures standing\n", len(entries), standing)
	return nil
}
