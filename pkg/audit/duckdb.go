// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb" // Driver
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/zipmerge/pkg/log"
)

// Schema SQL
const schemaSequenceSQL = `CREATE SEQUENCE IF NOT EXISTS zipmerge_event_id_seq;`
const schemaTableSQL = `
CREATE TABLE IF NOT EXISTS zipmerge_event_log (
    event_id        BIGINT PRIMARY KEY DEFAULT nextval('zipmerge_event_id_seq'),
    run_id          VARCHAR NOT NULL,
    archive         VARCHAR NOT NULL,
    account         VARCHAR,
    event           VARCHAR NOT NULL,
    event_timestamp TIMESTAMP NOT NULL,
    entry           VARCHAR,
    message         VARCHAR,
    duration_ms     BIGINT
);
CREATE INDEX IF NOT EXISTS idx_zipmerge_event_log_archive ON zipmerge_event_log (archive, event);
CREATE INDEX IF NOT EXISTS idx_zipmerge_event_log_run ON zipmerge_event_log (run_id, event_timestamp);
`

// 🗄️ DB records events in a DuckDB database file
type DB struct {
	conn   *sql.DB
	runID  string
	logger *log.Logger
}

// 🏭 Open opens the audit database at path, creating it and its schema on
// first use. Every event recorded through the returned DB is stamped with
// runID.
func Open(path string, runID string, logger *log.Logger) (*DB, error) {
	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Errorf("opening audit database %s: %w", path, err)
	}

	if err := initializeSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn, runID: runID, logger: logger}, nil
}

// initializeSchema creates the sequence and table in the correct order: the
// table's id default depends on the sequence.
func initializeSchema(conn *sql.DB) error {
	if _, err := conn.Exec(schemaSequenceSQL); err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return errors.Errorf("creating audit sequence: %w", err)
	}
	if _, err := conn.Exec(schemaTableSQL); err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return errors.Errorf("creating audit table: %w", err)
	}
	return nil
}

// Record inserts one event. Failures are logged at debug level and
// swallowed, auditing never fails the run.
func (d *DB) Record(ctx context.Context, event Event) {
	query := `
        INSERT INTO zipmerge_event_log (run_id, archive, account, event, event_timestamp, entry, message, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?);
    `
	var durationMs sql.NullInt64
	if event.Duration > 0 {
		durationMs = sql.NullInt64{Int64: event.Duration.Milliseconds(), Valid: true}
	}

	_, err := d.conn.ExecContext(ctx, query,
		d.runID,
		event.Archive,
		sql.NullString{String: event.Account, Valid: event.Account != ""},
		event.Name,
		time.Now().UTC(),
		sql.NullString{String: event.Entry, Valid: event.Entry != ""},
		sql.NullString{String: event.Message, Valid: event.Message != ""},
		durationMs,
	)
	if err != nil {
		d.logger.Debugf("audit insert failed for %s on %s: %v", event.Name, event.Archive, err)
	}
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	if err := d.conn.Close(); err != nil {
		return errors.Errorf("closing audit database: %w", err)
	}
	return nil
}
