// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bartekus/omnilens/internal/projectroot"
	"github.com/bartekus/omnilens/internal/render"
	"github.com/bartekus/omnilens/internal/runner"
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		reset  bool
	)
	cmd := &cobra.Command{
		Use:   "status [path]",
		Short: "Show the outcome of the last analysis run",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := runner.NewStateStore(filepath.Join(projectroot.FindOr(pathArg(args)), runner.DefaultDir))
			if reset {
				if err := store.Reset(); err != nil {
					return fmt.Errorf("resetting run state: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "run state cleared")
				return nil
			}

			last, err := store.ReadLastRun()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return render.JSON(out, last)
			}
			if last == nil {
				_, _ = fmt.Fprintln(out, "no runs recorded")
				return nil
			}

			a.log.WithField("run_id", last.RunID).Debug("read last run")
			_, _ = fmt.Fprintf(out, "status:   %s\n", last.Status)
			_, _ = fmt.Fprintf(out, "command:  %s\n", last.Command)
			_, _ = fmt.Fprintf(out, "path:     %s\n", last.Path)
			if last.Mode != "" {
				_, _ = fmt.Fprintf(out, "mode:     %s\n", last.Mode)
			}
			_, _ = fmt.Fprintf(out, "started:  %s (%s)\n", last.StartedAt.Format(time.RFC3339), humanize.Time(last.StartedAt))
			_, _ = fmt.Fprintf(out, "duration: %s\n", (time.Duration(last.DurationMS) * time.Millisecond).String())
			_, _ = fmt.Fprintf(out, "commits:  %s\n", humanize.Comma(int64(last.Commits)))
			_, _ = fmt.Fprintf(out, "files:    %s\n", humanize.Comma(int64(last.Files)))
			_, _ = fmt.Fprintf(out, "warnings: %d\n", last.Warnings)
			if last.Cached {
				_, _ = fmt.Fprintln(out, "cached:   yes")
			}
			if last.Output != "" {
				_, _ = fmt.Fprintf(out, "output:   %s\n", last.Output)
			}
			if last.Error != "" {
				_, _ = fmt.Fprintf(out, "error:    %s\n", last.Error)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the recorded run state")
	return cmd
}
