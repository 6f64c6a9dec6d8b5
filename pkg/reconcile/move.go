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

package reconcile

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/walteh/zipmerge/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// replaceable for tests that need to simulate cross-device failures
var renameFunc = os.Rename

// 🚚 Relocate moves the file or directory at src to dst, logs the outcome
// and reports whether a move happened. An existing dst is never touched:
// the move is skipped, a skip is logged and no error is returned. The
// existence check is redundant with the comparator consulted by the merge
// step, but it is what guarantees a destination is never overwritten no
// matter who calls in.
func Relocate(logger *log.Logger, src, dst string) (bool, error) {
	if _, err := os.Lstat(dst); err == nil {
		logger.Infof("skipped (already exists): %s", dst)
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.Errorf("checking destination %s: %w", dst, err)
	}

	if err := move(src, dst); err != nil {
		return false, errors.Errorf("moving %s to %s: %w", src, dst, err)
	}

	logger.Infof("moved: %s -> %s", src, dst)
	return true, nil
}

// 🔀 move renames src to dst, falling back to copy+remove when the two sit
// on different filesystems. Merging a mounted export share into a local
// account tree has to work unattended, so EXDEV is handled rather than
// surfaced.
func move(src, dst string) error {
	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	if err := copyAny(src, dst); err != nil {
		os.RemoveAll(dst) // dst did not exist before, safe to drop the partial copy
		return errors.Errorf("copying across filesystems: %w", err)
	}
	if err := os.RemoveAll(src); err != nil {
		return errors.Errorf("removing source after copy: %w", err)
	}
	return nil
}

// 🔍 isCrossDevice reports whether err is an EXDEV-class rename failure
func isCrossDevice(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	var le *os.LinkError
	if errors.As(err, &le) && errors.Is(le.Err, syscall.EXDEV) {
		return true
	}
	return false
}

// 📄 copyAny copies a file or a whole directory tree
func copyAny(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("reading source: %w", err)
	}
	if info.IsDir() {
		return copyTree(src, dst)
	}
	return copyFile(src, dst, info.Mode().Perm())
}

// 📄 copyFile copies a single file, fsyncing before close so the fallback
// is no less durable than a rename
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm)
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst) // drop the partial file
		return errors.Errorf("copying file content: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return errors.Errorf("syncing destination file: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination file: %w", err)
	}
	return nil
}

// 📁 copyTree copies a directory tree rooted at src to dst
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return errors.Errorf("reading entry %s: %w", path, err)
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return errors.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		case info.Mode().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			return errors.Errorf("unsupported entry type %s at %s", info.Mode().Type(), path)
		}
	})
}
