package commands

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/zipmerge/cmd/zipmerge/opts"
	"github.com/walteh/zipmerge/pkg/audit"
	"github.com/walteh/zipmerge/pkg/config"
	"github.com/walteh/zipmerge/pkg/log"
	"github.com/walteh/zipmerge/pkg/operation"
	"github.com/walteh/zipmerge/pkg/scan"
	"github.com/walteh/zipmerge/pkg/status"
)

// NewRunCmd creates a new run command
func NewRunCmd(root *opts.RootOpts) *cobra.Command {
	var (
		rootFolder     string
		mode           string
		logFile        string
		maxRetries     int
		deleteArchives bool
		testLimit      int
		auditDB        string
		strict         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract and merge every discovered archive",
		Long: `Run discovers per-account archives under the root folder and processes
them in fixed-size batches. For every archive it:
1. Cleans leftover temp folders from earlier runs
2. Extracts the archive into a temp folder next to the account
3. Merges the extracted content into the account folder
4. Removes the temp folder (and the archive, if configured)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := root.Config

			// Flags override the config file, but only when actually set.
			if cmd.Flags().Changed("root") {
				// A new root invalidates the log file default derived at
				// load time. An explicitly configured log file is kept.
				if cfg.LogFile == filepath.Join(cfg.RootFolder, config.DefaultLogFileName) {
					cfg.LogFile = ""
				}
				cfg.RootFolder = rootFolder
			}
			if cmd.Flags().Changed("mode") {
				parsed, err := config.ParseMode(mode)
				if err != nil {
					return err
				}
				cfg.Mode = parsed
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}
			if cmd.Flags().Changed("max-retries") {
				cfg.MaxRetries = maxRetries
			}
			if cmd.Flags().Changed("delete-archives") {
				cfg.DeleteArchives = deleteArchives
			}
			if cmd.Flags().Changed("test-limit") {
				cfg.TestItemLimit = testLimit
			}
			if cmd.Flags().Changed("audit-db") {
				cfg.AuditDB = auditDB
			}
			if cmd.Flags().Changed("strict") {
				cfg.StrictExit = strict
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("applying flag overrides: %w", err)
			}

			logger, err := log.Open(cfg.LogFile, root.Console, root.Level())
			if err != nil {
				return errors.Errorf("creating run logger: %w", err)
			}
			defer logger.Close()

			var recorder audit.Recorder = audit.NopRecorder{}
			if cfg.AuditDB != "" {
				db, err := audit.Open(cfg.AuditDB, uuid.NewString(), logger)
				if err != nil {
					return errors.Errorf("opening audit database: %w", err)
				}
				defer db.Close()
				recorder = db
			}

			scanner, err := scan.New(scan.Options{
				Root:           cfg.RootFolder,
				IgnorePatterns: cfg.IgnorePatterns,
				Logger:         logger,
			})
			if err != nil {
				return errors.Errorf("creating scanner: %w", err)
			}

			items, err := scanner.Discover(ctx)
			if err != nil {
				return errors.Errorf("discovering archives: %w", err)
			}
			for _, item := range items {
				recorder.Record(ctx, audit.Event{
					Name:    audit.EventDiscovered,
					Archive: item.ArchivePath,
					Account: item.AccountName,
				})
			}

			processor, err := operation.New(operation.Options{
				Config:   cfg,
				Logger:   logger,
				Recorder: recorder,
			})
			if err != nil {
				return errors.Errorf("creating processor: %w", err)
			}

			runner, err := operation.NewRunner(operation.RunnerOptions{
				Processor: processor,
				Config:    cfg,
				Logger:    logger,
			})
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			summary, results := runner.Run(ctx, items)

			for _, result := range results {
				fmt.Fprintln(root.Console, status.FormatItemLine(result))
			}
			for _, line := range status.FormatSummary(summary) {
				fmt.Fprintln(root.Console, line)
			}

			if cfg.StrictExit && summary.HasFailures() {
				return errors.Errorf("%d of %d item(s) failed", summary.Failed, summary.Processed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rootFolder, "root", "", "root folder to scan for archives")
	cmd.Flags().StringVar(&mode, "mode", "", "processing mode (normal, validate-only, validate-after)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log file path")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "attempts per retryable step")
	cmd.Flags().BoolVar(&deleteArchives, "delete-archives", false, "delete each archive after a successful merge")
	cmd.Flags().IntVar(&testLimit, "test-limit", 0, "process at most this many archives (0 = all)")
	cmd.Flags().StringVar(&auditDB, "audit-db", "", "record audit events to this DuckDB file")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any item fails")

	return cmd
}

// TODO(dr.methodical): 🧪 Add tests for flag override precedence
