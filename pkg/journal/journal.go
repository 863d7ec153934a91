// Package journal provides SQLite-based recording of successful flushes.
// It is an audit trail for the host: which agent committed which file, when,
// and how many staged operations the commit carried. Pending edits are never
// persisted, only the history of what reached disk.
package journal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"editcache/pkg/logx"
)

// CurrentSchemaVersion defines the current schema version for migration support.
const CurrentSchemaVersion = 1

// Journal is a handle to one flush-journal database. Hosts typically open
// one per workspace and share it across tools.
type Journal struct {
	db        *sql.DB
	sessionID string
	logger    *logx.Logger
}

// Open opens or creates the journal database at dbPath. The sessionID tags
// every record written through this handle, so one database can hold the
// history of many host runs.
func Open(dbPath, sessionID string) (*Journal, error) {
	// WAL mode and a busy timeout, same knobs as any single-writer SQLite use.
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		dbPath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger := logx.NewLogger("journal")
	logger.Info("Flush journal opened: %s (session: %s)", dbPath, sessionID)

	return &Journal{db: db, sessionID: sessionID, logger: logger}, nil
}

// SessionID returns the session tag this handle writes with.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if err := j.db.Close(); err != nil {
		return fmt.Errorf("failed to close journal database: %w", err)
	}
	return nil
}

// initializeSchema creates the schema if the database is new and verifies
// the version otherwise.
func initializeSchema(db *sql.DB) error {
	version, err := schemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version == 0 {
		return createSchema(db)
	}
	if version != CurrentSchemaVersion {
		return fmt.Errorf("unsupported journal schema version %d (want %d)", version, CurrentSchemaVersion)
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read user_version: %w", err)
	}
	return version, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS flushes (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		agent_id TEXT NOT NULL,
		path TEXT NOT NULL,
		operations INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_flushes_agent ON flushes(agent_id);
	CREATE INDEX IF NOT EXISTS idx_flushes_session ON flushes(session_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", CurrentSchemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}
