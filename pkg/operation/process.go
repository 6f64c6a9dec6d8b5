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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/zipmerge/pkg/archive"
	"github.com/walteh/zipmerge/pkg/audit"
	"github.com/walteh/zipmerge/pkg/config"
	"github.com/walteh/zipmerge/pkg/reconcile"
	"github.com/walteh/zipmerge/pkg/retry"
	"github.com/walteh/zipmerge/pkg/scan"
	"github.com/walteh/zipmerge/pkg/status"
)

// 🏃 Execute processes one archive to completion: clean temp, extract,
// merge, finalize. A failure is terminal for this item only; the caller
// carries on with the rest of the run.
func (p *Processor) Execute(ctx context.Context, item scan.WorkItem) status.ItemResult {
	started := time.Now()
	result := status.ItemResult{Item: item, Status: status.ItemSucceeded}

	p.logger.Infof("processing %s", item)
	p.record(ctx, item, audit.Event{Name: audit.EventProcessStart})

	if !p.cleanTemp(ctx, item) {
		result.Status = status.ItemFailed
		result.Err = errors.Errorf("could not clean temp folder %s", item.TempRoot)
		return p.finish(ctx, item, result, started)
	}

	if !p.extract(ctx, item) {
		result.Status = status.ItemFailed
		result.Err = errors.Errorf("could not extract %s", item.ArchivePath)
		return p.finish(ctx, item, result, started)
	}

	found, err := p.merge(ctx, item, &result.Entries)
	switch {
	case err != nil:
		result.Status = status.ItemFailed
		result.Err = err
		p.logger.Errorf("merging %s: %v", item, err)
		p.record(ctx, item, audit.Event{Name: audit.EventError, Message: err.Error()})
	case !found:
		result.Status = status.ItemNoContent
		p.logger.Infof("no content folder in %s, nothing to merge", item.TempRoot)
	case result.Entries.Failed > 0:
		result.Status = status.ItemFailed
		result.Err = errors.Errorf("%d content entry(s) failed", result.Entries.Failed)
	}

	p.finalize(ctx, item, &result)
	return p.finish(ctx, item, result, started)
}

// 🧹 cleanTemp removes whatever a previous run left in the temp root. A
// missing temp root is the normal case, not an error.
func (p *Processor) cleanTemp(ctx context.Context, item scan.WorkItem) bool {
	if _, err := os.Lstat(item.TempRoot); os.IsNotExist(err) {
		return true
	}

	p.logger.Infof("cleaning leftover temp folder: %s", item.TempRoot)
	return retry.Do(ctx, p.logger, "cleaning "+item.TempRoot, p.config.MaxRetries, func() error {
		return os.RemoveAll(item.TempRoot)
	})
}

// 🚚 extract expands the archive into the item's temp root under retry
func (p *Processor) extract(ctx context.Context, item scan.WorkItem) bool {
	p.logger.Infof("extracting %s to %s", item.ArchivePath, item.TempRoot)
	p.record(ctx, item, audit.Event{Name: audit.EventExtractStart})

	started := time.Now()
	ok := retry.Do(ctx, p.logger, "extracting "+item.ArchivePath, p.config.MaxRetries, func() error {
		return archive.Extract(ctx, p.logger, item.ArchivePath, item.TempRoot)
	})
	if !ok {
		p.record(ctx, item, audit.Event{Name: audit.EventError, Message: "extraction failed after retries"})
		return false
	}

	p.record(ctx, item, audit.Event{Name: audit.EventExtractEnd, Duration: time.Since(started)})
	return true
}

// 🔀 merge applies the processing-mode policy to every direct entry of the
// content folder. found is false when the extracted tree has no content
// folder at all. Entry failures are tallied, logged and skipped over; they
// never abort the remaining entries.
func (p *Processor) merge(ctx context.Context, item scan.WorkItem, counts *status.EntryCounts) (bool, error) {
	if _, err := os.Stat(item.ContentDir); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Errorf("reading content folder %s: %w", item.ContentDir, err)
	}

	entries, err := os.ReadDir(item.ContentDir)
	if err != nil {
		return true, errors.Errorf("listing content folder %s: %w", item.ContentDir, err)
	}

	p.logger.Infof("merging %d entries into %s", len(entries), item.AccountDir)
	for _, entry := range entries {
		src := filepath.Join(item.ContentDir, entry.Name())
		dst := filepath.Join(item.AccountDir, entry.Name())
		counts.Record(p.mergeEntry(ctx, item, entry.Name(), src, dst))
	}
	return true, nil
}

// mergeEntry decides what happens to one entry and returns its outcome.
func (p *Processor) mergeEntry(ctx context.Context, item scan.WorkItem, name, src, dst string) status.EntryStatus {
	if p.config.Mode == config.ModeValidateOnly {
		p.logger.Infof("skipped (validate-only): %s", dst)
		p.record(ctx, item, audit.Event{Name: audit.EventEntryValidated, Entry: name, Message: "validate-only"})
		return status.EntryValidateOnly
	}

	overwrite, err := reconcile.ShouldOverwrite(src, dst)
	if err != nil {
		p.logger.Errorf("comparing %s: %v", dst, err)
		p.record(ctx, item, audit.Event{Name: audit.EventError, Entry: name, Message: err.Error()})
		return status.EntryFailed
	}

	switch {
	case !overwrite:
		p.logger.Infof("skipped (no change): %s", dst)
		p.record(ctx, item, audit.Event{Name: audit.EventEntrySkipped, Entry: name, Message: "no change"})
		return status.EntrySkippedUnchanged

	case p.config.Mode == config.ModeValidateAfter:
		// This mode never moves anything, it only reports what a move
		// would have touched.
		p.logger.Infof("would validate: %s", dst)
		p.record(ctx, item, audit.Event{Name: audit.EventEntryValidated, Entry: name, Message: "would validate"})
		return status.EntryWouldValidate

	default:
		moved, err := reconcile.Relocate(p.logger, src, dst)
		if err != nil {
			p.logger.Errorf("relocating %s: %v", dst, err)
			p.record(ctx, item, audit.Event{Name: audit.EventError, Entry: name, Message: err.Error()})
			return status.EntryFailed
		}
		if !moved {
			p.record(ctx, item, audit.Event{Name: audit.EventEntrySkipped, Entry: name, Message: "already exists"})
			return status.EntrySkippedExists
		}
		p.record(ctx, item, audit.Event{Name: audit.EventEntryMoved, Entry: name})
		return status.EntryMoved
	}
}

// 🏁 finalize drops the temp root and, when configured, consumes the
// source archive. Runs in every mode once the merge stage has been passed.
func (p *Processor) finalize(ctx context.Context, item scan.WorkItem, result *status.ItemResult) {
	// Temp trees are scratch space. Best effort: whatever survives here is
	// removed by the next run's clean step.
	if err := os.RemoveAll(item.TempRoot); err != nil {
		p.logger.Warnf("could not remove temp folder %s: %v", item.TempRoot, err)
	}

	if !p.config.DeleteArchives || p.config.Mode != config.ModeNormal || result.Status != status.ItemSucceeded {
		return
	}

	ok := retry.Do(ctx, p.logger, "deleting "+item.ArchivePath, p.config.MaxRetries, func() error {
		return os.Remove(item.ArchivePath)
	})
	if !ok {
		// The merge already succeeded; a surviving archive is not a failure.
		p.logger.Warnf("archive left in place: %s", item.ArchivePath)
		return
	}

	p.logger.Infof("deleted archive: %s", item.ArchivePath)
	p.record(ctx, item, audit.Event{Name: audit.EventArchiveDeleted})
}

// finish stamps the duration, logs the terminal line and emits the closing
// audit event.
func (p *Processor) finish(ctx context.Context, item scan.WorkItem, result status.ItemResult, started time.Time) status.ItemResult {
	result.Duration = time.Since(started)

	switch result.Status {
	case status.ItemFailed:
		p.logger.Errorf("failed %s: %v", item, result.Err)
	case status.ItemNoContent:
		p.logger.Infof("finished %s: no content to merge", item)
	default:
		p.logger.Successf("finished %s: %s", item, status.FormatEntryTally(result.Entries))
	}

	p.record(ctx, item, audit.Event{
		Name:     audit.EventProcessEnd,
		Message:  result.Status.String(),
		Duration: result.Duration,
	})
	return result
}

// record fills in the item coordinates before handing the event over.
func (p *Processor) record(ctx context.Context, item scan.WorkItem, event audit.Event) {
	event.Archive = item.ArchivePath
	event.Account = item.AccountName
	p.recorder.Record(ctx, event)
}
