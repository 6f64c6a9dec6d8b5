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
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/walteh/zipmerge/pkg/scan"
)

// 🎨 Display configuration
const (
	lineIndent   = 4  // spaces to indent item lines
	accountWidth = 18 // width for the account name
	archiveWidth = 32 // width for the archive file name
	statusWidth  = 12 // width for status text
)

// 🎯 FormatItemLine formats one processed archive for terminal display
func FormatItemLine(result ItemResult) string {
	// Determine prefix symbol
	var prefix string
	switch result.Status {
	case ItemSucceeded:
		prefix = color.GreenString("✓")
	case ItemNoContent:
		prefix = color.HiBlackString("-")
	case ItemFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.YellowString("?")
	}

	detail := FormatEntryTally(result.Entries)
	if result.Status == ItemFailed && result.Err != nil {
		detail = result.Err.Error()
	}

	// Format parts with padding
	accountPart := fmt.Sprintf("%-*s", accountWidth, result.Item.AccountName)
	archivePart := fmt.Sprintf("%-*s", archiveWidth, filepath.Base(result.Item.ArchivePath))
	statusPart := fmt.Sprintf("%-*s", statusWidth, result.Status.String())

	return fmt.Sprintf("%s%s %s %s %s %s",
		strings.Repeat(" ", lineIndent),
		prefix,
		accountPart,
		archivePart,
		statusPart,
		detail,
	)
}

// 🔍 FormatScanLine formats one discovered archive for terminal display
func FormatScanLine(item scan.WorkItem, size int64) string {
	accountPart := fmt.Sprintf("%-*s", accountWidth, item.AccountName)
	archivePart := fmt.Sprintf("%-*s", archiveWidth, filepath.Base(item.ArchivePath))

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", lineIndent),
		color.CyanString("•"),
		accountPart,
		archivePart,
		FormatSize(size),
	)
}

// 🧾 FormatEntryTally renders entry counts as "3 moved, 2 skipped"
func FormatEntryTally(c EntryCounts) string {
	parts := []string{}
	if c.Moved > 0 {
		parts = append(parts, fmt.Sprintf("%d moved", c.Moved))
	}
	if skipped := c.SkippedExists + c.SkippedUnchanged; skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", skipped))
	}
	if flagged := c.ValidateOnly + c.WouldValidate; flagged > 0 {
		parts = append(parts, fmt.Sprintf("%d flagged", flagged))
	}
	if c.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", c.Failed))
	}
	if len(parts) == 0 {
		return "no entries"
	}
	return strings.Join(parts, ", ")
}

// 📈 FormatSummary renders the final run accounting as display lines
func FormatSummary(s RunSummary) []string {
	succeeded := color.GreenString("%d succeeded", s.Succeeded)
	failed := color.HiBlackString("%d failed", s.Failed)
	if s.Failed > 0 {
		failed = color.RedString("%d failed", s.Failed)
	}

	return []string{
		fmt.Sprintf("archives: %d discovered, %d processed in %s",
			s.Discovered, s.Processed, s.Duration.Round(time.Millisecond)),
		fmt.Sprintf("items:    %s, %s, %d without content", succeeded, failed, s.NoContent),
		fmt.Sprintf("entries:  %s", FormatEntryTally(s.Entries)),
	}
}

// FormatSize renders a byte count in a human-friendly unit.
func FormatSize(size int64) string {
	switch {
	case size >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(size)/(1<<30))
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
