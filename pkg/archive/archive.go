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

// 📦 Package archive expands zip archives into an extraction root.
//
// Extraction is all-or-nothing from the caller's point of view: the first
// entry that cannot be written fails the whole call, and the in-flight file
// is removed so no truncated entry survives. Re-running Extract over the same
// root is safe, existing files are truncated and rewritten.
package archive

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/zipmerge/pkg/log"
)

// 🚚 Extract expands the archive at zipPath into destRoot.
//
// Directory entries are created first, then files, each under destRoot with
// the entry's relative path preserved. Entries that would resolve outside
// destRoot are rejected.
func Extract(ctx context.Context, logger *log.Logger, zipPath string, destRoot string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		// ErrInsecurePath hands back a usable reader alongside the error.
		if reader != nil {
			reader.Close()
		}
		return errors.Errorf("opening archive %s: %w", zipPath, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(destRoot, 0755); err != nil {
		return errors.Errorf("creating extraction root %s: %w", destRoot, err)
	}

	root := filepath.Clean(destRoot)

	var folders []*zip.File
	var files []*zip.File
	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			folders = append(folders, entry)
		} else {
			files = append(files, entry)
		}
	}
	logger.Debugf("extracting %d entries from %s", len(folders)+len(files), zipPath)

	for _, entry := range folders {
		dest, err := entryPath(root, entry.Name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dest, 0755); err != nil {
			return errors.Errorf("creating folder %s: %w", dest, err)
		}
	}

	for _, entry := range files {
		select {
		case <-ctx.Done():
			return errors.Errorf("extraction of %s cancelled: %w", zipPath, ctx.Err())
		default:
		}

		dest, err := entryPath(root, entry.Name)
		if err != nil {
			return err
		}
		if err := writeEntry(entry, dest); err != nil {
			return err
		}
	}

	return nil
}

// 🔍 entryPath resolves an archive entry name under root.
//
// The joined path must stay inside root; anything else is a traversal
// attempt. A "./" entry resolves to root itself, which is fine.
func entryPath(root string, name string) (string, error) {
	dest := filepath.Join(root, filepath.FromSlash(name))
	if dest != root && !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
		return "", errors.Errorf("entry %q escapes extraction root", name)
	}
	return dest, nil
}

// 📝 writeEntry streams one file entry to disk.
//
// Closes are explicit, not deferred: close errors on the output file mean
// lost writes and have to fail the entry. A failed entry is removed so the
// extraction root never holds truncated files.
func writeEntry(entry *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Errorf("creating parent folder for %s: %w", dest, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return errors.Errorf("opening entry %s: %w", entry.Name, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		rc.Close()
		return errors.Errorf("creating %s: %w", dest, err)
	}

	_, copyErr := io.Copy(out, rc)
	closeOutErr := out.Close()
	rc.Close()

	if copyErr != nil {
		os.Remove(dest)
		return errors.Errorf("writing entry %s: %w", entry.Name, copyErr)
	}
	if closeOutErr != nil {
		os.Remove(dest)
		return errors.Errorf("closing %s: %w", dest, closeOutErr)
	}

	return nil
}
