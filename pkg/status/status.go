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
	"time"

	"github.com/walteh/zipmerge/pkg/scan"
)

// 📊 EntryStatus is the outcome of merging one content entry into the
// account folder
type EntryStatus int

const (
	EntryUnknown EntryStatus = iota
	EntryMoved
	EntrySkippedExists
	EntrySkippedUnchanged
	EntryValidateOnly
	EntryWouldValidate
	EntryFailed
)

// String returns a string representation of EntryStatus
func (s EntryStatus) String() string {
	switch s {
	case EntryMoved:
		return "moved"
	case EntrySkippedExists:
		return "skipped (already exists)"
	case EntrySkippedUnchanged:
		return "skipped (no change)"
	case EntryValidateOnly:
		return "validate-only"
	case EntryWouldValidate:
		return "would validate"
	case EntryFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🚦 ItemStatus is the terminal state of one archive's processing
type ItemStatus int

const (
	ItemUnknown ItemStatus = iota
	ItemSucceeded
	ItemNoContent
	ItemFailed
)

// String returns a string representation of ItemStatus
func (s ItemStatus) String() string {
	switch s {
	case ItemSucceeded:
		return "succeeded"
	case ItemNoContent:
		return "no content"
	case ItemFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 🧮 EntryCounts tallies entry outcomes for one archive
type EntryCounts struct {
	Moved            int
	SkippedExists    int
	SkippedUnchanged int
	ValidateOnly     int
	WouldValidate    int
	Failed           int
}

// Record adds one entry outcome to the tally.
func (c *EntryCounts) Record(s EntryStatus) {
	switch s {
	case EntryMoved:
		c.Moved++
	case EntrySkippedExists:
		c.SkippedExists++
	case EntrySkippedUnchanged:
		c.SkippedUnchanged++
	case EntryValidateOnly:
		c.ValidateOnly++
	case EntryWouldValidate:
		c.WouldValidate++
	case EntryFailed:
		c.Failed++
	}
}

// Merge folds another tally into this one.
func (c *EntryCounts) Merge(other EntryCounts) {
	c.Moved += other.Moved
	c.SkippedExists += other.SkippedExists
	c.SkippedUnchanged += other.SkippedUnchanged
	c.ValidateOnly += other.ValidateOnly
	c.WouldValidate += other.WouldValidate
	c.Failed += other.Failed
}

// Total returns the number of entries examined.
func (c EntryCounts) Total() int {
	return c.Moved + c.SkippedExists + c.SkippedUnchanged + c.ValidateOnly + c.WouldValidate + c.Failed
}

// 📄 ItemResult is the terminal record for one processed archive
type ItemResult struct {
	Item     scan.WorkItem
	Status   ItemStatus
	Err      error // terminal failure reason, nil unless the item failed
	Entries  EntryCounts
	Duration time.Duration
}
