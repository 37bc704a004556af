// SPDX-License-Identifier: AGPL-3.0-or-later

/*
omnilens - repository intelligence for commit history and source trees.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bartekus/omnilens/cmd/omnilens/internal/clierr"
	"github.com/bartekus/omnilens/internal/config"
	"github.com/bartekus/omnilens/internal/history"
	"github.com/bartekus/omnilens/internal/logging"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = "0.0.0-dev"

// app is the state shared by all commands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *logrus.Logger
}

// NewRootCmd constructs the omnilens root command.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "omnilens",
		Short: "omnilens - commit history and source tree intelligence",
		Long: `omnilens mines a repository's commit history and source files and reports
commit categories, authorship, breaking changes, symbols, imports and
code-health metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default .omnilens.yaml in the working or home directory)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Usage(err)
	})

	cmd.AddCommand(
		newVersionCmd(),
		newAnalyzeCmd(a),
		newDiffCmd(a),
		newLanguagesCmd(),
		newCategoriesCmd(),
		newCacheCmd(a),
		newStatusCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "loading configuration", err)
	}
	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return clierr.Usage(err)
	}
	a.cfg = cfg
	a.log = log
	if used := config.UsedFile(a.configPath); used != "" {
		log.WithField("file", used).Debug("configuration loaded")
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of omnilens",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			version := os.Getenv("OMNILENS_VERSION")
			if version == "" {
				version = Version
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "omnilens version %s\n", version)
		},
	}
}

// usageArgs turns positional argument errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return clierr.Usage(err)
		}
		return nil
	}
}

// exitError maps pipeline errors to exit codes.
func exitError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, history.ErrRange):
		return clierr.Wrap(clierr.ExitUsage, "invalid range", err)
	case errors.Is(err, history.ErrSourceUnavailable):
		return clierr.Wrap(clierr.ExitSourceUnavailable, "cannot read history", err)
	case errors.Is(err, context.Canceled):
		return clierr.Wrap(clierr.ExitFailure, "interrupted", err)
	default:
		return err
	}
}
