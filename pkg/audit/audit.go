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

// 📦 Package audit persists a per-run event trail of archive processing.
//
// The trail answers "what happened to this archive, in which run" after the
// fact, which the flat text log cannot do once runs pile up. Recording is
// strictly best-effort: a broken audit store never fails processing.
package audit

import (
	"context"
	"time"
)

// Constants for event types
const (
	EventDiscovered     = "discovered"
	EventProcessStart   = "process_start"
	EventExtractStart   = "extract_start"
	EventExtractEnd     = "extract_end"
	EventEntryMoved     = "entry_moved"
	EventEntrySkipped   = "entry_skipped"
	EventEntryValidated = "entry_validated"
	EventArchiveDeleted = "archive_deleted"
	EventProcessEnd     = "process_end"
	EventError          = "error"
)

// 📄 Event is one audit record as produced by a worker. The recorder stamps
// the run ID and timestamp on write.
type Event struct {
	Archive  string        // archive path the event belongs to
	Account  string        // owning account name
	Name     string        // one of the Event constants
	Entry    string        // content entry the event refers to, if any
	Message  string        // free-form detail
	Duration time.Duration // elapsed time for timed events, zero otherwise
}

// 📼 Recorder persists audit events
type Recorder interface {
	Record(ctx context.Context, event Event)
	Close() error
}

// 🚫 NopRecorder discards every event. Used whenever no audit database is
// configured.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, event Event) {}

func (NopRecorder) Close() error { return nil }
