// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bartekus/omnilens/cmd/omnilens/internal/clierr"
	"github.com/bartekus/omnilens/internal/pipeline"
	"github.com/bartekus/omnilens/internal/projection"
	"github.com/bartekus/omnilens/internal/render"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		format  string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "diff <base> <head> [path]",
		Short: "Compare the commits reachable from two refs",
		Long: `Mine base and head with the same filters and list the commits they share
and the commits only one of them contains.`,
		Args: usageArgs(cobra.RangeArgs(2, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 3 {
				path = args[2]
			}
			switch format {
			case render.FormatTable, render.FormatJSON, render.FormatYAML, render.FormatMarkdown, render.FormatCSV:
			default:
				return clierr.Usage(fmt.Errorf("%w for diff: %q", render.ErrUnknownFormat, format))
			}

			opts, err := filters.options(cmd, a.cfg, time.Now())
			if err != nil {
				return exitError(err)
			}
			diff, err := pipeline.New(a.cfg, pipeline.WithLogger(a.log)).
				Compare(cmd.Context(), path, args[0], args[1], opts)
			if err != nil {
				return exitError(err)
			}

			if output == "" {
				return render.Diff(cmd.OutOrStdout(), format, args[0], args[1], diff)
			}
			var buf bytes.Buffer
			if err := render.Diff(&buf, format, args[0], args[1], diff); err != nil {
				return err
			}
			if err := projection.AtomicWrite(output, buf.Bytes()); err != nil {
				return fmt.Errorf("writing comparison: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "comparison written to %s\n", output)
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatTable, "output format [table json yaml markdown csv]")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the comparison to this file instead of stdout")
	return cmd
}
