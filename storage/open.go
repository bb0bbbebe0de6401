package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) the snapshot database at path and runs
// migrations. Pragmas match the production deployment: WAL journaling
// with synchronous=NORMAL commits each upsert durably before the run
// reads it back, and busy_timeout guards against a leftover reader.
func OpenSQLite(path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("sqlite: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// modernc.org/sqlite serves each conn its own in-memory database;
	// a single conn keeps :memory: tests and WAL writes coherent.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=10000;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", strings.TrimSuffix(pragma, ";"), err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenPostgres connects to PostgreSQL and runs migrations. The ping
// loop rides out a database container that is still starting.
func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &Store{db: db, postgres: true}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the base schema and applies additive column
// migrations. Evolution is additive-only: columns are added with
// defaults, never dropped or retyped, so older databases keep working.
func (s *Store) migrate() error {
	baseTables := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			title_key    TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			release_date TEXT NOT NULL,
			trailer_url  TEXT NOT NULL DEFAULT '',
			trailer_kind TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS trailer_daily (
			date      TEXT NOT NULL,
			title_key TEXT NOT NULL,
			source    TEXT NOT NULL,
			views     BIGINT,
			likes     BIGINT,
			comments  BIGINT,
			err       TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (date, title_key, source)
		)`,
		`CREATE TABLE IF NOT EXISTS social_daily (
			date      TEXT NOT NULL,
			title_key TEXT NOT NULL,
			title     TEXT NOT NULL DEFAULT '',
			posts_7d  BIGINT,
			eng_7d    BIGINT,
			err       TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (date, title_key)
		)`,
		`CREATE TABLE IF NOT EXISTS boxoffice_daily (
			date      TEXT NOT NULL,
			title_key TEXT NOT NULL,
			tickets   BIGINT,
			cume      BIGINT,
			err       TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (date, title_key)
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id           TEXT PRIMARY KEY,
			date             TEXT NOT NULL,
			started_at       TEXT NOT NULL,
			finished_at      TEXT NOT NULL,
			catalog_size     BIGINT NOT NULL DEFAULT 0,
			titles_in_window BIGINT NOT NULL DEFAULT 0,
			alert_count      BIGINT NOT NULL DEFAULT 0,
			fetch_errors     BIGINT NOT NULL DEFAULT 0
		)`,
	}
	for _, ddl := range baseTables {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}

	// Columns added after the initial schema shipped (manual box-office
	// import carries gross revenue and screen counts).
	additive := []struct{ table, column, ddl string }{
		{"boxoffice_daily", "gross", "BIGINT"},
		{"boxoffice_daily", "screens", "BIGINT"},
	}
	for _, m := range additive {
		if err := s.ensureColumn(m.table, m.column, m.ddl); err != nil {
			return err
		}
	}
	return nil
}

// ensureColumn adds a column if it is not already there. Neither
// backend has a portable ADD COLUMN IF NOT EXISTS, so the duplicate
// error is detected and swallowed instead.
func (s *Store) ensureColumn(table, column, ddl string) error {
	_, err := s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl))
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate column") || strings.Contains(msg, "already exists") {
		return nil
	}
	return fmt.Errorf("store: add column %s.%s: %w", table, column, err)
}
