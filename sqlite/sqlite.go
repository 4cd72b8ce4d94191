// Package sqlite provides SQLite-based storage implementations for
// apidex services. It is the default, local catalog backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds on lock contention before failing.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL improves write performance for file-based databases.
	// Not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the catalog tables and views if they don't
// exist. The script is idempotent.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS apis (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			base_url TEXT NOT NULL DEFAULT '',
			docs_url TEXT NOT NULL,
			auth_type TEXT NOT NULL DEFAULT 'none',
			pricing_model TEXT NOT NULL DEFAULT 'per_call',
			status TEXT NOT NULL DEFAULT 'active',
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS endpoints (
			id TEXT PRIMARY KEY,
			api_id TEXT NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			deprecated INTEGER NOT NULL DEFAULT 0,
			source_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			UNIQUE(api_id, method, path)
		);

		CREATE INDEX IF NOT EXISTS idx_endpoints_api_id ON endpoints(api_id);

		CREATE TABLE IF NOT EXISTS parameters (
			id TEXT PRIMARY KEY,
			endpoint_id TEXT NOT NULL REFERENCES endpoints(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'string',
			required INTEGER NOT NULL DEFAULT 0,
			example TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			UNIQUE(endpoint_id, location, name)
		);

		CREATE INDEX IF NOT EXISTS idx_parameters_endpoint_id ON parameters(endpoint_id);

		CREATE TABLE IF NOT EXISTS doc_pages (
			id TEXT PRIMARY KEY,
			api_id TEXT NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
			source_url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			tokens INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			fetched_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_doc_pages_api_id ON doc_pages(api_id);
		CREATE INDEX IF NOT EXISTS idx_doc_pages_source_url ON doc_pages(source_url);

		CREATE TABLE IF NOT EXISTS quirks (
			id TEXT PRIMARY KEY,
			api_id TEXT NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
			endpoint_id TEXT REFERENCES endpoints(id) ON DELETE CASCADE,
			field TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			severity TEXT NOT NULL,
			description TEXT NOT NULL,
			example TEXT NOT NULL DEFAULT '',
			detected_by TEXT NOT NULL DEFAULT 'manual',
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_quirks_api_id ON quirks(api_id);

		CREATE TABLE IF NOT EXISTS workflows (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS workflow_apis (
			workflow_id TEXT NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
			api_id TEXT NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			operation TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (workflow_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_workflow_apis_api_id ON workflow_apis(api_id);

		CREATE TABLE IF NOT EXISTS api_relationships (
			id TEXT PRIMARY KEY,
			api_id TEXT NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
			related_api_id TEXT NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			UNIQUE(api_id, related_api_id, kind)
		);

		CREATE TABLE IF NOT EXISTS cost_tracking (
			id TEXT PRIMARY KEY,
			api_id TEXT NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
			operation TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT 'call',
			unit_cost_micros INTEGER NOT NULL DEFAULT 0,
			monthly_volume INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			recorded_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cost_tracking_api_id ON cost_tracking(api_id);
		CREATE INDEX IF NOT EXISTS idx_cost_tracking_operation ON cost_tracking(operation);

		CREATE VIEW IF NOT EXISTS api_overview AS
		SELECT
			a.id AS api_id,
			a.name AS name,
			(SELECT COUNT(*) FROM endpoints e WHERE e.api_id = a.id) AS endpoints,
			(SELECT COUNT(*) FROM parameters p
				JOIN endpoints e ON p.endpoint_id = e.id
				WHERE e.api_id = a.id) AS parameters,
			(SELECT COUNT(*) FROM quirks q WHERE q.api_id = a.id) AS quirks,
			(SELECT COUNT(*) FROM doc_pages d WHERE d.api_id = a.id) AS doc_pages,
			(SELECT COALESCE(SUM(c.unit_cost_micros * c.monthly_volume), 0)
				FROM cost_tracking c WHERE c.api_id = a.id) AS monthly_cost_micros
		FROM apis a;

		CREATE VIEW IF NOT EXISTS workflow_summary AS
		SELECT
			w.id AS workflow_id,
			w.name AS name,
			COUNT(wa.position) AS steps,
			COUNT(DISTINCT wa.api_id) AS apis,
			COALESCE(GROUP_CONCAT(a.name, ', ' ORDER BY wa.position), '') AS api_names
		FROM workflows w
		LEFT JOIN workflow_apis wa ON wa.workflow_id = w.id
		LEFT JOIN apis a ON a.id = wa.api_id
		GROUP BY w.id, w.name;

		CREATE VIEW IF NOT EXISTS cost_comparison AS
		SELECT
			c.operation AS operation,
			a.id AS api_id,
			a.name AS api_name,
			c.unit AS unit,
			c.unit_cost_micros AS unit_cost_micros,
			c.monthly_volume AS monthly_volume,
			c.unit_cost_micros * c.monthly_volume AS monthly_cost_micros,
			RANK() OVER (
				PARTITION BY c.operation
				ORDER BY c.unit_cost_micros * c.monthly_volume, a.name
			) AS cost_rank
		FROM cost_tracking c
		JOIN apis a ON a.id = c.api_id;
	`

	_, err := db.db.Exec(schema)
	return err
}
