// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/omnilens/internal/projectroot"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the analysis cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info [path]",
		Short: "Show the cache location and entry count",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(projectroot.FindOr(pathArg(args)), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			n, err := c.Len()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "path: %s\nentries: %d\nttl: %s\n", c.Path(), n, a.cfg.Cache.TTL)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear [path]",
		Short: "Remove every cached report",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCache(projectroot.FindOr(pathArg(args)), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			n, err := c.Clear()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached report(s)\n", n)
			return nil
		},
	})
	return cmd
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
