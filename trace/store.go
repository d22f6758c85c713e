package trace

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Schema for the outline_runs table. Call [Store.Init] or apply
// manually.
const Schema = `
CREATE TABLE IF NOT EXISTS outline_runs (
	id TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	pages INTEGER NOT NULL DEFAULT 0,
	fragments INTEGER NOT NULL DEFAULT 0,
	headings INTEGER NOT NULL DEFAULT 0,
	conditions TEXT NOT NULL DEFAULT '',
	truncated INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	duration_us INTEGER NOT NULL DEFAULT 0,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outline_runs_ts ON outline_runs(timestamp);
`

// Open opens (or creates) a SQLite run store at path with WAL
// journaling and a busy timeout suited to concurrent batch writers.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("trace: %s: %w", p, err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: ping: %w", err)
	}
	return db, nil
}

// Store persists run records to SQLite asynchronously. Records are
// buffered on a channel and flushed in transactions of up to 64 rows,
// or once per second, whichever comes first.
type Store struct {
	db   *sql.DB
	ch   chan *Run
	done chan struct{}
	once sync.Once
}

// NewStore creates a run store backed by the given database
// connection and starts its flush goroutine.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Run, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the outline_runs table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues a run for async persistence. Non-blocking; drops
// the record if the buffer is full so extraction never stalls on the
// store.
func (s *Store) RecordAsync(r *Run) {
	select {
	case s.ch <- r:
	default:
	}
}

// Close drains the buffer and stops the flush goroutine.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

// Recent returns the most recent n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input, title, pages, fragments, headings,
		       conditions, truncated, error, duration_us, timestamp
		FROM outline_runs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("trace: query recent: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Input, &r.Title, &r.Pages,
			&r.Fragments, &r.Headings, &r.Conditions, &r.Truncated,
			&r.Error, &r.DurationUs, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("trace: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Run, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case r, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, r)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Run) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("run store: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO outline_runs (
		id, input, title, pages, fragments, headings,
		conditions, truncated, error, duration_us, timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("run store: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, r := range batch {
		if _, err := stmt.Exec(r.ID, r.Input, r.Title, r.Pages,
			r.Fragments, r.Headings, r.Conditions, r.Truncated,
			r.Error, r.DurationUs, r.Timestamp); err != nil {
			slog.Error("run store: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("run store: commit", "error", err)
	}
}
