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

package status

import (
	"sync"
	"time"
)

// 🔧 Tracker collects item results as workers finish them
type Tracker struct {
	mu      sync.Mutex
	results []ItemResult
	started time.Time
}

// 🏭 NewTracker creates a tracker; the run clock starts here
func NewTracker() *Tracker {
	return &Tracker{started: time.Now()}
}

// Add records one finished item. Safe for concurrent use.
func (t *Tracker) Add(result ItemResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.results = append(t.results, result)
}

// Results returns a copy of everything recorded so far, in completion order.
func (t *Tracker) Results() []ItemResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ItemResult, len(t.results))
	copy(out, t.results)
	return out
}

// Summarize folds the recorded results into a RunSummary. discovered is the
// scanner's archive count, which can exceed the processed count when a test
// item cap stops the run early.
func (t *Tracker) Summarize(discovered int) RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := RunSummary{
		Discovered: discovered,
		Processed:  len(t.results),
		Duration:   time.Since(t.started),
	}
	for _, r := range t.results {
		switch r.Status {
		case ItemSucceeded:
			summary.Succeeded++
		case ItemNoContent:
			summary.NoContent++
		case ItemFailed:
			summary.Failed++
		}
		summary.Entries.Merge(r.Entries)
	}
	return summary
}

// 🧾 RunSummary is the final accounting for a whole run
type RunSummary struct {
	Discovered int
	Processed  int
	Succeeded  int
	NoContent  int
	Failed     int
	Entries    EntryCounts
	Duration   time.Duration
}

// HasFailures reports whether any item ended in failure.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}
