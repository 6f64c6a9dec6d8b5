package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/zipmerge/cmd/zipmerge/opts"
	"github.com/walteh/zipmerge/pkg/log"
	"github.com/walteh/zipmerge/pkg/scan"
	"github.com/walteh/zipmerge/pkg/status"
)

// NewScanCmd creates a new scan command
func NewScanCmd(root *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the archives a run would process",
		Long: `Scan walks the root folder and prints every archive a run would pick
up, without extracting or moving anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := root.Config

			// Discovery only, nothing worth keeping in the run log
			logger := log.New(io.Discard, root.Console, root.Level())

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

			if len(items) == 0 {
				fmt.Fprintln(root.Console, "no archives found")
				return nil
			}

			for _, item := range items {
				var size int64
				if info, err := os.Stat(item.ArchivePath); err == nil {
					size = info.Size()
				}
				fmt.Fprintln(root.Console, status.FormatScanLine(item, size))
			}
			fmt.Fprintf(root.Console, "%d archive(s) found\n", len(items))

			return nil
		},
	}

	return cmd
}

// TODO(dr.methodical): 🧪 Add tests for scan output
