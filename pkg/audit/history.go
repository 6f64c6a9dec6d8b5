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
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📜 HistoryEntry is one row read back from the event log
type HistoryEntry struct {
	RunID     string
	Archive   string
	Account   string
	Event     string
	Timestamp time.Time
	Entry     string
	Message   string
	Duration  time.Duration // zero when the event was not timed
}

// History returns the most recent events, newest first. eventFilter narrows
// the result to one event name when non-empty.
func (d *DB) History(ctx context.Context, limit int, eventFilter string) ([]HistoryEntry, error) {
	query := `
        SELECT run_id, archive, account, event, event_timestamp, entry, message, duration_ms
        FROM zipmerge_event_log
    `
	args := []any{}
	if eventFilter != "" {
		query += " WHERE event = ?"
		args = append(args, eventFilter)
	}
	query += " ORDER BY event_timestamp DESC, event_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Errorf("querying audit history: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var account, entry, message sql.NullString
		var durationMs sql.NullInt64
		if err := rows.Scan(&e.RunID, &e.Archive, &account, &e.Event, &e.Timestamp, &entry, &message, &durationMs); err != nil {
			return nil, errors.Errorf("scanning audit history row: %w", err)
		}
		e.Account = account.String
		e.Entry = entry.String
		e.Message = message.String
		if durationMs.Valid {
			e.Duration = time.Duration(durationMs.Int64) * time.Millisecond
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("iterating audit history rows: %w", err)
	}

	return entries, nil
}
