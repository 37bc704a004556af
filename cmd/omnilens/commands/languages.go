// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/omnilens/internal/analyzer"
	"github.com/bartekus/omnilens/internal/commits"
	"github.com/bartekus/omnilens/internal/lang"
	"github.com/bartekus/omnilens/internal/render"
	"github.com/bartekus/omnilens/pkg/report"
)

type languageItem struct {
	Extension string `json:"extension"`
	Language  string `json:"language"`
	Symbols   bool   `json:"symbols"`
}

func newLanguagesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List detected file extensions and the languages with symbol extraction",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := analyzer.DefaultRegistry()
			analyzed := func(l string) bool {
				_, ok := reg.Lookup(l)
				return ok
			}
			exts := lang.Extensions()
			if !asJSON {
				return render.Languages(cmd.OutOrStdout(), exts, analyzed)
			}
			items := make([]languageItem, 0, len(exts))
			for _, e := range exts {
				items = append(items, languageItem{Extension: e.Extension, Language: e.Language, Symbols: analyzed(e.Language)})
			}
			return render.JSON(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

type categoryItem struct {
	Category report.Category `json:"category"`
	Synonyms []string        `json:"synonyms"`
}

func newCategoriesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List commit categories and the type tokens that map to them",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := make([]categoryItem, 0, len(report.AllCategories()))
			for _, c := range report.AllCategories() {
				items = append(items, categoryItem{Category: c, Synonyms: commits.Synonyms(c)})
			}
			if asJSON {
				return render.JSON(cmd.OutOrStdout(), items)
			}
			return render.Categories(cmd.OutOrStdout(), report.AllCategories(), commits.Synonyms)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
