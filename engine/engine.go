package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// DefaultBusyTimeout is applied to replica handles when ReplicaOptions leaves
// BusyTimeout unset.
const DefaultBusyTimeout = 5 * time.Second

// Open opens a SQLite database using the modernc.org/sqlite driver.
//
// For file-based databases, pass a path like "./db.sqlite". For in-memory
// databases, pass ":memory:".
func Open(dsn string) (*sql.DB, error) { return sql.Open(DriverName, dsn) }

// ReplicaOptions tunes a local replica handle opened with OpenReplica.
type ReplicaOptions struct {
	// DriverName selects the database/sql driver. Empty means DriverName.
	// A driver built with extension loading (e.g. a cgo SQLite driver) is
	// required when the native sync extension must be loaded.
	DriverName string

	// BusyTimeout bounds how long SQLite waits on a locked database.
	BusyTimeout time.Duration
}

// OpenReplica opens the SQLite file at path as a replica handle: WAL
// journal, in-memory temp store and a busy timeout. The pool is pinned to a
// single connection because the sync extension attaches itself to the temp
// schema of the connection that created it.
func OpenReplica(ctx context.Context, path string, opts ReplicaOptions) (*sql.DB, error) {
	driverName := opts.DriverName
	if driverName == "" {
		driverName = DriverName
	}
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = DefaultBusyTimeout
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busy.Milliseconds()),
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("engine: %s failed on %s: %w", pragma, path, err)
		}
	}
	return db, nil
}
