// Package store is the C4/C5 writer: a single SQLite handle in WAL mode
// holding the nine persisted tables of the catalog schema plus the pages
// queue and a schema_version row. Migrations are additive only.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Store wraps the database handle. A single *sql.DB with MaxOpenConns
// pinned to 1 gives us the "single writer guarded by a mutex" discipline
// the concurrency model allows, while WAL mode still lets readers proceed
// without blocking on it.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite file at path in WAL mode and
// applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite database")
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return eris.Wrap(err, "apply schema")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return eris.Wrap(err, "read schema_version")
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_version(version) VALUES (?)`, schemaVersion); err != nil {
			return eris.Wrap(err, "seed schema_version")
		}
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
