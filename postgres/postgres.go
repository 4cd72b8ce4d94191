// Package postgres provides PostgreSQL-based storage implementations
// for apidex services, for catalogs shared through a hosted database.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB represents a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
	dsn  string
}

// NewDB creates a new DB instance with the given connection string.
func NewDB(dsn string) *DB {
	return &DB{dsn: dsn}
}

// Open connects to the database and applies the schema.
func (db *DB) Open(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, db.dsn)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db.pool = pool

	if err := db.ApplySchema(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// Pool returns the underlying connection pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// ApplySchema applies the catalog DDL. The script is idempotent and
// can also be pasted into a hosted database console unchanged.
func (db *DB) ApplySchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, Schema)
	return err
}

// isUniqueViolation reports whether err is a Postgres unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Schema is the catalog DDL: eight tables and three views.
const Schema = `
CREATE TABLE IF NOT EXISTS apis (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	base_url TEXT NOT NULL DEFAULT '',
	docs_url TEXT NOT NULL,
	auth_type TEXT NOT NULL DEFAULT 'none',
	pricing_model TEXT NOT NULL DEFAULT 'per_call',
	status TEXT NOT NULL DEFAULT 'active',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS endpoints (
	id UUID PRIMARY KEY,
	api_id UUID NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
	method TEXT NOT NULL,
	path TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	deprecated BOOLEAN NOT NULL DEFAULT FALSE,
	source_url TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE(api_id, method, path)
);

CREATE INDEX IF NOT EXISTS idx_endpoints_api_id ON endpoints(api_id);

CREATE TABLE IF NOT EXISTS parameters (
	id UUID PRIMARY KEY,
	endpoint_id UUID NOT NULL REFERENCES endpoints(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	location TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT 'string',
	required BOOLEAN NOT NULL DEFAULT FALSE,
	example TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	UNIQUE(endpoint_id, location, name)
);

CREATE INDEX IF NOT EXISTS idx_parameters_endpoint_id ON parameters(endpoint_id);

CREATE TABLE IF NOT EXISTS doc_pages (
	id UUID PRIMARY KEY,
	api_id UUID NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
	source_url TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	content_hash TEXT NOT NULL DEFAULT '',
	tokens INTEGER NOT NULL DEFAULT 0,
	position INTEGER NOT NULL DEFAULT 0,
	fetched_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_doc_pages_api_id ON doc_pages(api_id);

CREATE TABLE IF NOT EXISTS quirks (
	id UUID PRIMARY KEY,
	api_id UUID NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
	endpoint_id UUID REFERENCES endpoints(id) ON DELETE CASCADE,
	field TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	severity TEXT NOT NULL,
	description TEXT NOT NULL,
	example TEXT NOT NULL DEFAULT '',
	detected_by TEXT NOT NULL DEFAULT 'manual',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_quirks_api_id ON quirks(api_id);

CREATE TABLE IF NOT EXISTS workflows (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS workflow_apis (
	workflow_id UUID NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
	api_id UUID NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	operation TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (workflow_id, position)
);

CREATE INDEX IF NOT EXISTS idx_workflow_apis_api_id ON workflow_apis(api_id);

CREATE TABLE IF NOT EXISTS api_relationships (
	id UUID PRIMARY KEY,
	api_id UUID NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
	related_api_id UUID NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE(api_id, related_api_id, kind)
);

CREATE TABLE IF NOT EXISTS cost_tracking (
	id UUID PRIMARY KEY,
	api_id UUID NOT NULL REFERENCES apis(id) ON DELETE CASCADE,
	operation TEXT NOT NULL,
	unit TEXT NOT NULL DEFAULT 'call',
	unit_cost_micros BIGINT NOT NULL DEFAULT 0,
	monthly_volume BIGINT NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cost_tracking_api_id ON cost_tracking(api_id);
CREATE INDEX IF NOT EXISTS idx_cost_tracking_operation ON cost_tracking(operation);

CREATE OR REPLACE VIEW api_overview AS
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

CREATE OR REPLACE VIEW workflow_summary AS
SELECT
	w.id AS workflow_id,
	w.name AS name,
	COUNT(wa.position) AS steps,
	COUNT(DISTINCT wa.api_id) AS apis,
	COALESCE(STRING_AGG(a.name, ', ' ORDER BY wa.position), '') AS api_names
FROM workflows w
LEFT JOIN workflow_apis wa ON wa.workflow_id = w.id
LEFT JOIN apis a ON a.id = wa.api_id
GROUP BY w.id, w.name;

CREATE OR REPLACE VIEW cost_comparison AS
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
