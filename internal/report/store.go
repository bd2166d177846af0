package report

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store persists analysis results to SQLite. It is an output artifact
// only: the analyzer never reads prior runs, so no state carries across
// invocations through it.
type Store struct {
	db *sql.DB
}

// OpenStore creates or opens the result database at path and applies the
// schema. Safe to call against an existing result database; runs append.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open result db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect result db: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveResult writes one run's complete result in a single transaction.
func (s *Store) SaveResult(ctx context.Context, r *Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (token, started_at) VALUES (?, ?)`,
		r.RunToken, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, d := range r.Domains {
		if d.Error != "" {
			continue
		}
		for _, reg := range d.Registers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO registers (run_token, domain, signal) VALUES (?, ?, ?)`,
				r.RunToken, d.Clock, reg,
			); err != nil {
				return fmt.Errorf("insert register %s: %w", reg, err)
			}
		}
		for i, e := range d.Edges {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO edges (run_token, domain, source, dest, ord) VALUES (?, ?, ?, ?, ?)`,
				r.RunToken, e.Domain, e.Source, e.Dest, i,
			); err != nil {
				return fmt.Errorf("insert edge %s->%s: %w", e.Source, e.Dest, err)
			}
		}
		for i, c := range d.Components {
			feedback := 0
			if c.Feedback {
				feedback = 1
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO components (run_token, domain, ord, members, feedback) VALUES (?, ?, ?, ?, ?)`,
				r.RunToken, d.Clock, i, strings.Join(c.Members, ","), feedback,
			); err != nil {
				return fmt.Errorf("insert component %d: %w", i, err)
			}
		}
	}
	return tx.Commit()
}
