package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records in a SQLite database file so they survive
// restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) the database at dbPath. ":memory:"
// gives a private in-memory database.
func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		if parent := filepath.Dir(dbPath); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create state dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to configure state db: %w", err)
		}
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS conversions (
	input TEXT PRIMARY KEY,
	mod_time_ns INTEGER NOT NULL,
	size INTEGER NOT NULL,
	output TEXT NOT NULL,
	hands INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	error TEXT NOT NULL,
	run_id TEXT NOT NULL,
	converted_at_ns INTEGER NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create state schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Lookup(ctx context.Context, input string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT mod_time_ns, size, output, hands, skipped, error, run_id, converted_at_ns
FROM conversions WHERE input = ?`, input)

	rec := Record{Input: input}
	var modNS, convertedNS int64
	err := row.Scan(&modNS, &rec.Stamp.Size, &rec.Output, &rec.Hands, &rec.Skipped, &rec.Error, &rec.RunID, &convertedNS)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to read state for %s: %w", input, err)
	}
	rec.Stamp.ModTime = time.Unix(0, modNS).UTC()
	rec.ConvertedAt = time.Unix(0, convertedNS).UTC()
	return rec, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO conversions (input, mod_time_ns, size, output, hands, skipped, error, run_id, converted_at_ns)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(input) DO UPDATE SET
	mod_time_ns = excluded.mod_time_ns,
	size = excluded.size,
	output = excluded.output,
	hands = excluded.hands,
	skipped = excluded.skipped,
	error = excluded.error,
	run_id = excluded.run_id,
	converted_at_ns = excluded.converted_at_ns`,
		rec.Input,
		rec.Stamp.ModTime.UnixNano(),
		rec.Stamp.Size,
		rec.Output,
		rec.Hands,
		rec.Skipped,
		rec.Error,
		rec.RunID,
		rec.ConvertedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save state for %s: %w", rec.Input, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
