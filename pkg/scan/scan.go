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

// Package scan discovers archive files under the configured root folder and
// derives the per-archive work items the rest of the pipeline operates on.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/zipmerge/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Scanner walks the root folder looking for archives
type Scanner struct {
	root   string
	ignore []string
	logger *log.Logger
}

// 🔧 Options contains configuration for the scanner
type Options struct {
	// Root is the folder to walk
	Root string
	// IgnorePatterns are doublestar globs matched against root-relative paths
	IgnorePatterns []string
	// Logger is the run log
	Logger *log.Logger
}

// 🏭 New creates a new scanner
func New(opts Options) (*Scanner, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	return &Scanner{
		root:   filepath.Clean(opts.Root),
		ignore: opts.IgnorePatterns,
		logger: opts.Logger,
	}, nil
}

// 🏃 Discover walks the root folder and returns one WorkItem per archive,
// in walk order. A missing or unreadable root is an error: without a
// readable root there is no run.
func (s *Scanner) Discover(ctx context.Context) ([]WorkItem, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(s.root)
	if err != nil {
		return nil, errors.Errorf("reading root folder %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root %s is not a folder", s.root)
	}

	var items []WorkItem
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			// Never treat our own scratch folders as source material
			if d.Name() == TempFolderName {
				logger.Debug().Str("path", path).Msg("skipping temp folder")
				return fs.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(d.Name()), ArchiveExt) {
			return nil
		}
		if s.shouldIgnore(ctx, path) {
			return nil
		}

		item := NewItem(path)
		items = append(items, item)
		s.logger.Infof("found archive: %s", path)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", s.root, err)
	}

	if len(items) == 0 {
		s.logger.Warnf("no archives found under %s", s.root)
	} else {
		s.logger.Infof("discovered %d archive(s) under %s", len(items), s.root)
	}

	return items, nil
}

// 🔍 shouldIgnore checks a path against the configured ignore patterns.
// Patterns are matched against the root-relative path with forward slashes.
func (s *Scanner) shouldIgnore(ctx context.Context, path string) bool {
	if len(s.ignore) == 0 {
		return false
	}
	logger := zerolog.Ctx(ctx)

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		logger.Debug().Str("path", path).Err(err).Msg("cannot make path relative, not ignoring")
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range s.ignore {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			logger.Debug().Str("file", rel).Str("pattern", pattern).Msg("archive ignored by pattern")
			return true
		}
	}

	return false
}
