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

package config

import (
	"fmt"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 🚦 MaxParallelWorkers is the number of archives processed concurrently.
// Each batch is capped at this size and the next batch only starts once the
// whole previous batch has finished.
const MaxParallelWorkers = 5

const (
	// DefaultMaxRetries is the attempt budget for retryable filesystem steps
	DefaultMaxRetries = 3

	// DefaultLogFileName is the log file created under the root folder when
	// no explicit log_file is configured
	DefaultLogFileName = "zipmerge.log"
)

// 🎛️ Mode selects how extracted content is applied to account folders
type Mode string

const (
	// ModeNormal extracts and moves content into the account folders
	ModeNormal Mode = "normal"

	// ModeValidateOnly extracts but never moves, logging every candidate
	ModeValidateOnly Mode = "validate-only"

	// ModeValidateAfter extracts and logs which files would be overwritten,
	// without moving anything
	ModeValidateAfter Mode = "validate-after"
)

// 🔍 ParseMode parses a mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNormal, ModeValidateOnly, ModeValidateAfter:
		return Mode(s), nil
	case "":
		return ModeNormal, nil
	default:
		return "", errors.Errorf("unknown mode %q (want normal, validate-only or validate-after)", s)
	}
}

// 📚 Config represents the complete run configuration
type Config struct {
	RootFolder     string   `json:"root_folder"                yaml:"root_folder"`
	LogFile        string   `json:"log_file,omitempty"         yaml:"log_file,omitempty"`
	MaxRetries     int      `json:"max_retries,omitempty"      yaml:"max_retries,omitempty"`
	DeleteArchives bool     `json:"delete_archives,omitempty"  yaml:"delete_archives,omitempty"`
	TestItemLimit  int      `json:"test_item_limit,omitempty"  yaml:"test_item_limit,omitempty"`
	Mode           Mode     `json:"mode,omitempty"             yaml:"mode,omitempty"`
	IgnorePatterns []string `json:"ignore_patterns,omitempty"  yaml:"ignore_patterns,omitempty"`
	AuditDB        string   `json:"audit_db,omitempty"         yaml:"audit_db,omitempty"`
	StrictExit     bool     `json:"strict_exit,omitempty"      yaml:"strict_exit,omitempty"`

	location string // path the config was loaded from, informational only
}

// 📍 Location returns the path this config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks required fields, applies defaults and normalizes paths
func (cfg *Config) Validate() error {
	if cfg.RootFolder == "" {
		return errors.Errorf("root_folder is required")
	}
	cfg.RootFolder = filepath.Clean(cfg.RootFolder)

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.RootFolder, DefaultLogFileName)
	}
	cfg.LogFile = filepath.Clean(cfg.LogFile)

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.MaxRetries < 1 {
		return errors.Errorf("max_retries must be at least 1, got %d", cfg.MaxRetries)
	}

	if cfg.TestItemLimit < 0 {
		return errors.Errorf("test_item_limit must not be negative, got %d", cfg.TestItemLimit)
	}

	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return err
	}
	cfg.Mode = mode

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (mode=%s, retries=%d, limit=%d)",
		cfg.RootFolder, cfg.Mode, cfg.MaxRetries, cfg.TestItemLimit)
}
