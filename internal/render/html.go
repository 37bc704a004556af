// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/bartekus/omnilens/internal/projection"
	"github.com/bartekus/omnilens/pkg/report"
)

const (
	chartWidth  = "900px"
	chartHeight = "420px"
)

func initOpts(pageTitle string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: pageTitle,
		Width:     chartWidth,
		Height:    chartHeight,
	})
}

func categoryPie(rep *report.Report) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts("omnilens"),
		charts.WithTitleOpts(opts.Title{
			Title:    "Commit categories",
			Subtitle: fmt.Sprintf("%d commits", rep.Aggregate.TotalCommits),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	data := make([]opts.PieData, 0, len(rep.Aggregate.Categories))
	for _, c := range rep.Aggregate.Categories {
		data = append(data, opts.PieData{Name: string(c.Category), Value: c.Count})
	}
	pie.AddSeries("categories", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
	)
	return pie
}

func authorBar(rep *report.Report, limit int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts("omnilens"),
		charts.WithTitleOpts(opts.Title{Title: "Top authors"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	ranked := truncate(rankAuthors(rep.Aggregate.Authors), limit)
	names := make([]string, 0, len(ranked))
	commits := make([]opts.BarData, 0, len(ranked))
	for _, a := range ranked {
		names = append(names, a.name)
		commits = append(commits, opts.BarData{Value: a.stats.Commits})
	}
	bar.SetXAxis(names).AddSeries("commits", commits)
	return bar
}

func hotspotBar(rep *report.Report, limit int) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts("omnilens"),
		charts.WithTitleOpts(opts.Title{Title: "Hotspots", Subtitle: "lines changed per file"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	hot := truncate(rep.Aggregate.Hotspots, limit)
	paths := make([]string, 0, len(hot))
	changes := make([]opts.BarData, 0, len(hot))
	for _, h := range hot {
		paths = append(paths, h.Path)
		changes = append(changes, opts.BarData{Value: h.Changes})
	}
	bar.SetXAxis(paths).AddSeries("changes", changes)
	bar.XYReversal()
	return bar
}

func languagePie(rep *report.Report) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts("omnilens"),
		charts.WithTitleOpts(opts.Title{
			Title:    "Languages",
			Subtitle: fmt.Sprintf("%d files", rep.Aggregate.TotalFiles),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	data := make([]opts.PieData, 0, len(rep.Aggregate.Languages))
	for _, l := range projection.SortedKeys(rep.Aggregate.Languages) {
		data = append(data, opts.PieData{Name: l, Value: rep.Aggregate.Languages[l]})
	}
	pie.AddSeries("languages", data)
	return pie
}

// HTML writes a standalone page of charts. Sections without data are left
// out.
func HTML(w io.Writer, rep *report.Report, o Options) error {
	page := components.NewPage()
	page.PageTitle = "omnilens report"

	var added int
	if len(rep.Aggregate.Categories) > 0 {
		page.AddCharts(categoryPie(rep))
		added++
	}
	if len(rep.Aggregate.Authors) > 0 {
		page.AddCharts(authorBar(rep, o.limit()))
		added++
	}
	if len(rep.Aggregate.Hotspots) > 0 {
		page.AddCharts(hotspotBar(rep, o.limit()))
		added++
	}
	if len(rep.Aggregate.Languages) > 0 {
		page.AddCharts(languagePie(rep))
		added++
	}
	if added == 0 {
		page.AddCharts(categoryPie(rep))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}
