package workload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// ErrUnknownFormat is returned for an output format other than table, yaml and json.
var ErrUnknownFormat = errors.New("unknown output format")

// WriteVerify renders report in format.
func WriteVerify(w io.Writer, report *VerifyReport, format string) error {
	if format == FormatTable {
		return writeVerifyTable(w, report)
	}

	return writeEncoded(w, report, format)
}

// WriteBench renders report in format.
func WriteBench(w io.Writer, report *BenchReport, format string) error {
	if format == FormatTable {
		return writeBenchTable(w, report)
	}

	return writeEncoded(w, report, format)
}

func writeEncoded(w io.Writer, report any, format string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(report)
	case FormatJSON:
		data, err = json.MarshalIndent(report, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("encode %s report: %w", format, err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func writeVerifyTable(w io.Writer, report *VerifyReport) error {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Check", "Operations", "Result", "Detail"})

	for _, row := range report.Rows {
		result := pass("PASS")
		if !row.Passed {
			result = fail("FAIL")
		}

		tbl.AppendRow(table.Row{row.Name, humanize.Comma(int64(row.Operations)), result, row.Detail})
	}

	tbl.AppendFooter(table.Row{
		"Seed " + strconv.FormatInt(report.Seed, 10), "",
		fmt.Sprintf("%d/%d", len(report.Rows)-report.Failed(), len(report.Rows)), "",
	})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func writeBenchTable(w io.Writer, report *BenchReport) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Kind", "Size", "Op", "ns/op", "Arena"})

	for _, row := range report.Rows {
		tbl.AppendRow(table.Row{
			row.Kind,
			humanize.Comma(int64(row.Size)),
			row.Op,
			strconv.FormatFloat(row.NsPerOp, 'f', 1, 64),
			humanize.IBytes(row.ArenaBytes),
		})
	}

	tbl.AppendFooter(table.Row{"Best of " + strconv.Itoa(report.Repeat), "", "", "", ""})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
