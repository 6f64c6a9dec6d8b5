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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/walteh/zipmerge/cmd/zipmerge/commands"
	"github.com/walteh/zipmerge/cmd/zipmerge/opts"
)

func main() {
	// Stop cleanly between batches on Ctrl-C
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Filled in by PersistentPreRunE once flags are parsed
	root := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "zipmerge",
		Short: "Merge per-account archive exports into their account folders",
		Long: `zipmerge scans a root folder for per-account zip archives, extracts
each one into a scratch folder next to its account and merges the
extracted content into the account folder, never overwriting what is
already there.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			built, err := newRootOpts(cmd.Context())
			if err != nil {
				return err
			}
			*root = *built
			return nil
		},
	}

	rootCmd.Version = GetVersionInfo().Version
	rootCmd.SetVersionTemplate(FormatVersion())

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewRunCmd(root),
		commands.NewScanCmd(root),
		commands.NewHistoryCmd(root),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// TODO(dr.methodical): 🧪 Add tests for context cancellation
