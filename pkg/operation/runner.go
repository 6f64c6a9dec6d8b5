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

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/zipmerge/pkg/config"
	"github.com/walteh/zipmerge/pkg/log"
	"github.com/walteh/zipmerge/pkg/scan"
	"github.com/walteh/zipmerge/pkg/status"
)

// 🏃 Runner dispatches work items in fixed-size, barrier-synchronized
// batches
type Runner struct {
	processor *Processor
	config    *config.Config
	logger    *log.Logger
}

// 🔧 RunnerOptions configures a Runner
type RunnerOptions struct {
	// Processor executes one item at a time
	Processor *Processor
	// Config is the resolved run configuration
	Config *config.Config
	// Logger is the shared run logger
	Logger *log.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Processor == nil {
		return nil, errors.Errorf("processor is required")
	}
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	return &Runner{
		processor: opts.Processor,
		config:    opts.Config,
		logger:    opts.Logger,
	}, nil
}

// 🚦 Run processes items in discovery order, at most MaxParallelWorkers at
// a time. The whole batch finishes before the next one starts: one slow
// archive delays the next batch, which keeps the filesystem load bounded
// and predictable.
//
// Item failures never abort the run; they are carried in the results. The
// closing banner is printed no matter how many items failed.
func (r *Runner) Run(ctx context.Context, items []scan.WorkItem) (status.RunSummary, []status.ItemResult) {
	tracker := status.NewTracker()

	if len(items) == 0 {
		r.logger.Warnf("no archives discovered, nothing to do")
		r.logger.Successf("all files processed")
		return tracker.Summarize(0), nil
	}

	discovered := len(items)
	dispatched := items
	if limit := r.config.TestItemLimit; limit > 0 && limit < len(items) {
		dispatched = items[:limit]
	}

	for start := 0; start < len(dispatched); start += config.MaxParallelWorkers {
		if ctx.Err() != nil {
			r.logger.Warnf("run cancelled: %v", ctx.Err())
			return tracker.Summarize(discovered), tracker.Results()
		}

		end := start + config.MaxParallelWorkers
		if end > len(dispatched) {
			end = len(dispatched)
		}
		batch := dispatched[start:end]
		r.logger.Debugf("dispatching batch of %d (%d of %d done)", len(batch), start, len(dispatched))

		g, gctx := errgroup.WithContext(ctx)
		for _, item := range batch {
			g.Go(func() error {
				tracker.Add(r.processor.Execute(gctx, item))
				return nil
			})
		}
		// Workers never return errors, the barrier is the point.
		_ = g.Wait()
	}

	if len(dispatched) < discovered {
		r.logger.Warnf("test limit reached: processed %d of %d archives", len(dispatched), discovered)
	}

	r.logger.Successf("all files processed")
	return tracker.Summarize(discovered), tracker.Results()
}
