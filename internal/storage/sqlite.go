// Package storage provides an SQLite journal of structure placements.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tilegrid/internal/events"
	"github.com/vovakirdan/tilegrid/internal/placement"
)

// Store manages the SQLite database connection for the placement journal.
type Store struct {
	db *sql.DB
}

// Entry represents a single journal row.
type Entry struct {
	ID        int64
	Session   string
	Event     string // "create" or "destroy"
	EntityID  string
	Tag       string
	X, Y      int
	W, H      int
	CreatedAt time.Time
}

// TagCount aggregates journal rows for one blueprint tag.
type TagCount struct {
	Tag       string
	Created   int
	Destroyed int
}

// Standing returns how many structures with this tag were never destroyed.
func (c TagCount) Standing() int {
	return c.Created - c.Destroyed
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS placements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session TEXT NOT NULL,
			event TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			tag TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			w INTEGER NOT NULL,
			h INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_placements_session ON placements(session);
		CREATE INDEX IF NOT EXISTS idx_placements_tag ON placements(tag, event);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Attach subscribes the journal to bus as a Phase2 observer for both event
// kinds, so every row is written after the world indices have settled.
//
// A create that accepted rejects is not recorded, and a destroy is recorded
// only for entities whose create was, so a rolled-back placement leaves no
// rows. A nil accepted records every create. Write failures are logged and
// never reject a placement.
func (s *Store) Attach(bus *placement.Bus, session string, logger *log.Logger, accepted func(*placement.Entity) bool) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	recorded := mapset.New[placement.ID]()

	write := func(kind events.Kind, e *placement.Entity) bool {
		if _, err := s.Record(session, kind, e); err != nil {
			logger.Warn("journal write failed", "session", session, "event", kind, "tag", e.Tag(), "error", err)
			return false
		}
		return true
	}

	bus.Subscribe(events.Create, events.Phase2, func(e *placement.Entity) error {
		if accepted != nil && !accepted(e) {
			logger.Debug("journal skipped rejected create", "session", session, "tag", e.Tag(), "entity", e.ID())
			return nil
		}
		if write(events.Create, e) {
			recorded.Put(e.ID())
		}
		return nil
	})
	bus.Subscribe(events.Destroy, events.Phase2, func(e *placement.Entity) error {
		if !recorded.Has(e.ID()) {
			return nil
		}
		recorded.Remove(e.ID())
		write(events.Destroy, e)
		return nil
	})
}

// Record writes one journal row and returns its ID.
func (s *Store) Record(session string, kind events.Kind, e *placement.Entity) (int64, error) {
	anchor, size := e.Anchor(), e.Size()
	result, err := s.db.Exec(
		`INSERT INTO placements (session, event, entity_id, tag, x, y, w, h)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session, kind.String(), e.ID().String(), e.Tag(), anchor.X, anchor.Y, size.W, size.H,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record %s: %w", kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// Recent retrieves the latest journal rows across all sessions, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(
		`SELECT id, session, event, entity_id, tag, x, y, w, h, created_at
		 FROM placements
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// SessionHistory retrieves the rows of one session in the order they were written.
func (s *Store) SessionHistory(session string) ([]Entry, error) {
	return s.query(
		`SELECT id, session, event, entity_id, tag, x, y, w, h, created_at
		 FROM placements
		 WHERE session = ?
		 ORDER BY id ASC`,
		session,
	)
}

func (s *Store) query(q string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query placements: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Session, &e.Event, &e.EntityID, &e.Tag,
			&e.X, &e.Y, &e.W, &e.H, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// CountsByTag returns create/destroy totals per tag, sorted by tag.
func (s *Store) CountsByTag() ([]TagCount, error) {
	rows, err := s.db.Query(
		`SELECT tag,
		        SUM(CASE WHEN event = 'create' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN event = 'destroy' THEN 1 ELSE 0 END)
		 FROM placements
		 GROUP BY tag
		 ORDER BY tag`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count placements: %w", err)
	}
	defer rows.Close()

	var counts []TagCount
	for rows.Next() {
		var c TagCount
		if err := rows.Scan(&c.Tag, &c.Created, &c.Destroyed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan count row: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return counts, nil
}

// Clear deletes every journal row.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM placements"); err != nil {
		return fmt.Errorf("storage: cannot clear placements: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
