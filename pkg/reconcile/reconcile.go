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

// Package reconcile decides whether extracted content should replace what is
// already in an account folder, and performs the actual moves.
package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 🔍 ShouldOverwrite reports whether the entry at src warrants a relocation
// onto dst. A missing dst always warrants it. Two regular files are compared
// by content hash: differing hashes warrant relocation, equal hashes do not.
// Directory entries are compared by presence only: an existing destination
// directory is never re-merged. Read failures propagate, they are never
// treated as "overwrite".
func ShouldOverwrite(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, errors.Errorf("reading source %s: %w", src, err)
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, errors.Errorf("reading destination %s: %w", dst, err)
	}

	if srcInfo.IsDir() || dstInfo.IsDir() {
		return false, nil
	}

	srcSum, err := fileChecksum(src)
	if err != nil {
		return false, errors.Errorf("hashing source %s: %w", src, err)
	}
	dstSum, err := fileChecksum(dst)
	if err != nil {
		return false, errors.Errorf("hashing destination %s: %w", dst, err)
	}

	return srcSum != dstSum, nil
}

// 🔍 fileChecksum generates a SHA-256 hash of the file content, streaming so
// large exports don't get slurped into memory
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", errors.Errorf("reading file: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
