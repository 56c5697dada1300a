package workload

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WritePlot renders report as an HTML line chart of ns/op over size with
// one series per container kind and operation.
func WritePlot(w io.Writer, report *BenchReport) error {
	var sizes []int

	for _, row := range report.Rows {
		if !slices.Contains(sizes, row.Size) {
			sizes = append(sizes, row.Size)
		}
	}

	slices.Sort(sizes)

	xLabels := make([]string, len(sizes))
	for idx, size := range sizes {
		xLabels[idx] = strconv.Itoa(size)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Associative container benchmark",
			Subtitle: fmt.Sprintf("Best of %d runs, seed %d", report.Repeat, report.Seed),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "5px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Elements"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ns/op"}),
	)
	line.SetXAxis(xLabels)

	for _, kind := range Kinds() {
		for _, op := range []string{OpInsert, OpFind, OpErase} {
			data := make([]opts.LineData, len(sizes))

			for _, row := range report.Rows {
				if row.Kind == kind && row.Op == op {
					data[slices.Index(sizes, row.Size)] = opts.LineData{Value: row.NsPerOp}
				}
			}

			line.AddSeries(kind+" "+op, data)
		}
	}

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}
