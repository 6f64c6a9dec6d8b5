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

package operation_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/zipmerge/pkg/audit"
	"github.com/walteh/zipmerge/pkg/config"
	"github.com/walteh/zipmerge/pkg/log"
	"github.com/walteh/zipmerge/pkg/operation"
	"github.com/walteh/zipmerge/pkg/scan"
)

// 🔧 newRunner wires a processor and runner sharing one captured log
func newRunner(t *testing.T, cfg *config.Config, recorder audit.Recorder) (*operation.Runner, *bytes.Buffer) {
	t.Helper()

	require.NoError(t, cfg.Validate(), "validating config")

	var logs bytes.Buffer
	logger := log.New(&logs, nil, zerolog.DebugLevel)

	processor, err := operation.New(operation.Options{
		Config:   cfg,
		Logger:   logger,
		Recorder: recorder,
	})
	require.NoError(t, err, "creating processor")

	runner, err := operation.NewRunner(operation.RunnerOptions{
		Processor: processor,
		Config:    cfg,
		Logger:    logger,
	})
	require.NoError(t, err, "creating runner")

	return runner, &logs
}

// 🔧 newAccounts fabricates n accounts, each holding one healthy archive
// with a single content entry.
func newAccounts(t *testing.T, root string, n int) []scan.WorkItem {
	t.Helper()

	items := make([]scan.WorkItem, 0, n)
	for i := 0; i < n; i++ {
		account := fmt.Sprintf("user-%02d", i)
		item := newAccount(t, root, account, "takeout.zip", map[string]string{
			"takeout/notes.txt": fmt.Sprintf("notes for %s", account),
		})
		items = append(items, item)
	}
	return items
}

// 📊 concurrencyProbe tracks how many items are in flight at once, using
// the audit events that bracket every Execute call.
type concurrencyProbe struct {
	mu     sync.Mutex
	active int
	peak   int
}

func (p *concurrencyProbe) Record(_ context.Context, event audit.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch event.Name {
	case audit.EventProcessStart:
		p.active++
		if p.active > p.peak {
			p.peak = p.active
		}
	case audit.EventProcessEnd:
		p.active--
	}
}

func (p *concurrencyProbe) Close() error { return nil }

// 🚦 stragglerGate records the account of every processing start and holds
// one designated account at its start until released.
type stragglerGate struct {
	mu      sync.Mutex
	started []string
	block   string
	release chan struct{}
}

func (g *stragglerGate) Record(_ context.Context, event audit.Event) {
	if event.Name != audit.EventProcessStart {
		return
	}
	g.mu.Lock()
	g.started = append(g.started, event.Account)
	g.mu.Unlock()
	if event.Account == g.block {
		<-g.release
	}
}

func (g *stragglerGate) Close() error { return nil }

func (g *stragglerGate) startedAccounts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.started...)
}

func TestNewRunnerValidation(t *testing.T) {
	cfg := &config.Config{RootFolder: "."}
	require.NoError(t, cfg.Validate(), "validating config")
	logger := log.New(&bytes.Buffer{}, nil, zerolog.InfoLevel)
	processor, err := operation.New(operation.Options{Config: cfg, Logger: logger})
	require.NoError(t, err, "creating processor")

	tests := []struct {
		name        string
		opts        operation.RunnerOptions
		errContains string
	}{
		{
			name:        "missing_processor",
			opts:        operation.RunnerOptions{Config: cfg, Logger: logger},
			errContains: "processor is required",
		},
		{
			name:        "missing_config",
			opts:        operation.RunnerOptions{Processor: processor, Logger: logger},
			errContains: "config is required",
		},
		{
			name:        "missing_logger",
			opts:        operation.RunnerOptions{Processor: processor, Config: cfg},
			errContains: "logger is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := operation.NewRunner(tt.opts)
			require.Error(t, err, "NewRunner should reject incomplete options")
			assert.Contains(t, err.Error(), tt.errContains, "error should name the missing collaborator")
		})
	}
}

func TestRunProcessesEveryItem(t *testing.T) {
	root := t.TempDir()
	items := newAccounts(t, root, 3)

	runner, logs := newRunner(t, &config.Config{RootFolder: root, MaxRetries: 1}, nil)

	summary, results := runner.Run(context.Background(), items)

	assert.Equal(t, 3, summary.Discovered, "all archives should be discovered")
	assert.Equal(t, 3, summary.Processed, "all archives should be processed")
	assert.Equal(t, 3, summary.Succeeded, "all archives should succeed")
	assert.Zero(t, summary.Failed, "nothing should fail")
	assert.False(t, summary.HasFailures(), "a clean run has no failures")
	assert.Equal(t, 3, summary.Entries.Moved, "each archive contributes one moved entry")
	require.Len(t, results, 3, "one result per item")

	for _, item := range items {
		_, err := os.Lstat(filepath.Join(item.AccountDir, "notes.txt"))
		assert.NoError(t, err, "content of %s should be merged", item.AccountName)
	}

	assert.Contains(t, logs.String(), "all files processed", "the closing banner should be printed")
}

func TestRunKeepsWorkerCap(t *testing.T) {
	root := t.TempDir()
	items := newAccounts(t, root, config.MaxParallelWorkers*2+2)

	probe := &concurrencyProbe{}
	runner, _ := newRunner(t, &config.Config{RootFolder: root, MaxRetries: 1}, probe)

	summary, _ := runner.Run(context.Background(), items)

	assert.Equal(t, len(items), summary.Processed, "every item should be processed")
	assert.LessOrEqual(t, probe.peak, config.MaxParallelWorkers, "in-flight items must never exceed the worker cap")
	assert.Zero(t, probe.active, "every started item should have finished")
}

func TestRunWaitsForWholeBatch(t *testing.T) {
	root := t.TempDir()
	items := newAccounts(t, root, config.MaxParallelWorkers+1)

	gate := &stragglerGate{
		block:   items[0].AccountName,
		release: make(chan struct{}),
	}
	var releaseOnce sync.Once
	releaseGate := func() { releaseOnce.Do(func() { close(gate.release) }) }
	defer releaseGate()

	runner, _ := newRunner(t, &config.Config{RootFolder: root, MaxRetries: 1}, gate)

	done := make(chan struct{})
	var processed, succeeded int
	go func() {
		defer close(done)
		summary, _ := runner.Run(context.Background(), items)
		processed = summary.Processed
		succeeded = summary.Succeeded
	}()

	require.Eventually(t, func() bool {
		return len(gate.startedAccounts()) >= config.MaxParallelWorkers
	}, 5*time.Second, 5*time.Millisecond, "the whole first batch should start")

	// Four batch members finish almost instantly; the held straggler must
	// keep the next batch from starting regardless.
	time.Sleep(100 * time.Millisecond)
	held := gate.startedAccounts()
	assert.Len(t, held, config.MaxParallelWorkers, "no item may start while one from the current batch is still running")
	assert.NotContains(t, held, items[config.MaxParallelWorkers].AccountName, "the next batch must wait for the straggler")

	releaseGate()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish after the straggler was released")
	}

	assert.Equal(t, len(items), processed, "every item should be processed once the batch completes")
	assert.Equal(t, len(items), succeeded, "every item should succeed")
	assert.Contains(t, gate.startedAccounts(), items[config.MaxParallelWorkers].AccountName, "the sixth archive should run in the following batch")
}

func TestRunHonorsTestItemLimit(t *testing.T) {
	root := t.TempDir()
	items := newAccounts(t, root, 4)

	cfg := &config.Config{RootFolder: root, MaxRetries: 1, TestItemLimit: 2}
	runner, logs := newRunner(t, cfg, nil)

	summary, results := runner.Run(context.Background(), items)

	assert.Equal(t, 4, summary.Discovered, "discovery count reflects the full scan")
	assert.Equal(t, 2, summary.Processed, "only the capped prefix should be processed")
	require.Len(t, results, 2, "one result per processed item")

	for _, item := range items[2:] {
		_, err := os.Lstat(filepath.Join(item.AccountDir, "notes.txt"))
		assert.True(t, os.IsNotExist(err), "items beyond the cap must stay untouched")
	}

	assert.Contains(t, logs.String(), "test limit reached: processed 2 of 4 archives", "the cap should be called out")
	assert.Contains(t, logs.String(), "all files processed", "the closing banner should still be printed")
}

func TestRunWithNoItems(t *testing.T) {
	runner, logs := newRunner(t, &config.Config{RootFolder: t.TempDir(), MaxRetries: 1}, nil)

	summary, results := runner.Run(context.Background(), nil)

	assert.Zero(t, summary.Discovered, "nothing was discovered")
	assert.Zero(t, summary.Processed, "nothing was processed")
	assert.Empty(t, results, "no results without items")

	assert.Contains(t, logs.String(), "no archives discovered", "the empty scan should be called out")
	assert.Contains(t, logs.String(), "all files processed", "the closing banner is printed even for empty runs")
}

func TestRunBannerSurvivesFailures(t *testing.T) {
	root := t.TempDir()
	items := newAccounts(t, root, 1)

	accountDir := filepath.Join(root, "broken-account")
	require.NoError(t, os.MkdirAll(accountDir, 0755), "creating account folder")
	brokenPath := filepath.Join(accountDir, "broken.zip")
	require.NoError(t, os.WriteFile(brokenPath, []byte("garbage"), 0644), "writing corrupt archive")
	items = append(items, scan.NewItem(brokenPath))

	runner, logs := newRunner(t, &config.Config{RootFolder: root, MaxRetries: 1}, nil)

	summary, results := runner.Run(context.Background(), items)

	assert.Equal(t, 1, summary.Succeeded, "the healthy archive should succeed")
	assert.Equal(t, 1, summary.Failed, "the corrupt archive should fail")
	assert.True(t, summary.HasFailures(), "the summary should flag the failure")
	require.Len(t, results, 2, "both items should carry results")

	assert.Contains(t, logs.String(), "all files processed", "the banner is printed no matter how many items failed")
}

func TestRunStopsWhenCancelled(t *testing.T) {
	root := t.TempDir()
	items := newAccounts(t, root, 2)

	runner, logs := newRunner(t, &config.Config{RootFolder: root, MaxRetries: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, results := runner.Run(ctx, items)

	assert.Zero(t, summary.Processed, "no batch should start on a cancelled context")
	assert.Empty(t, results, "no results on a cancelled run")

	assert.Contains(t, logs.String(), "run cancelled", "the abort should be logged")
	assert.NotContains(t, logs.String(), "all files processed", "an aborted run must not claim success")
}
