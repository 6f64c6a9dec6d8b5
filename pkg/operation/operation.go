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

// Package operation provides core functionality for processing account archives
package operation

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/zipmerge/pkg/audit"
	"github.com/walteh/zipmerge/pkg/config"
	"github.com/walteh/zipmerge/pkg/log"
)

// 🔧 Options contains the collaborators every processor needs
type Options struct {
	// Config is the resolved run configuration. It is passed explicitly to
	// every step; nothing in this package reads ambient state.
	Config *config.Config
	// Logger is the shared run logger
	Logger *log.Logger
	// Recorder receives audit events; nil disables auditing
	Recorder audit.Recorder
}

// 🏭 New creates a new processor with the given options
func New(opts Options) (*Processor, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if opts.Recorder == nil {
		opts.Recorder = audit.NopRecorder{}
	}
	return &Processor{
		config:   opts.Config,
		logger:   opts.Logger,
		recorder: opts.Recorder,
	}, nil
}

// 🎮 Processor runs the per-archive state machine
type Processor struct {
	config   *config.Config
	logger   *log.Logger
	recorder audit.Recorder
}

// Execute is implemented in process.go
