package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/zipmerge/cmd/zipmerge/opts"
	"github.com/walteh/zipmerge/pkg/audit"
	"github.com/walteh/zipmerge/pkg/log"
)

// NewHistoryCmd creates a new history command
func NewHistoryCmd(root *opts.RootOpts) *cobra.Command {
	var (
		limit int
		event string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent audit events",
		Long: `History reads the audit database and prints the most recent events,
newest first. Requires audit_db to be configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := root.Config

			if cfg.AuditDB == "" {
				return errors.Errorf("audit_db is not configured")
			}

			logger := log.New(io.Discard, root.Console, root.Level())

			// Read-side open, the run id is never written
			db, err := audit.Open(cfg.AuditDB, "", logger)
			if err != nil {
				return errors.Errorf("opening audit database: %w", err)
			}
			defer db.Close()

			entries, err := db.History(ctx, limit, event)
			if err != nil {
				return errors.Errorf("reading history: %w", err)
			}

			if len(entries) == 0 {
				fmt.Fprintln(root.Console, "no events recorded")
				return nil
			}

			fmt.Fprintf(root.Console, "--- Audit History (Limit %d) ---\n", limit)
			fmt.Fprintf(root.Console, "%-32s | %-16s | %-16s | %-25s | %-10s | %s\n",
				"Archive", "Account", "Event", "Timestamp (UTC)", "DurationMS", "Details")
			fmt.Fprintln(root.Console, strings.Repeat("-", 130))

			for _, entry := range entries {
				duration := ""
				if entry.Duration > 0 {
					duration = fmt.Sprintf("%d", entry.Duration.Milliseconds())
				}

				details := entry.Message
				if entry.Entry != "" {
					if details != "" {
						details = entry.Entry + ": " + details
					} else {
						details = entry.Entry
					}
				}

				fmt.Fprintf(root.Console, "%-32s | %-16s | %-16s | %-25s | %-10s | %s\n",
					filepath.Base(entry.Archive), entry.Account, entry.Event,
					entry.Timestamp.Format(time.RFC3339), duration, details)
			}
			fmt.Fprintf(root.Console, "%d event(s) shown\n", len(entries))

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "maximum number of events to show")
	cmd.Flags().StringVarP(&event, "event", "e", "", "only show this event type (e.g. entry_moved, error)")

	return cmd
}

// TODO(dr.methodical): 🧪 Add tests for event filtering
