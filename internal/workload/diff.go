package workload

import (
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// orderDiff renders the line diff between the expected and the observed key order.
// Removed lines carry "-", added lines "+".
func orderDiff(want, got []int) string {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(joinLines(want), joinLines(got))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	var out strings.Builder

	for _, diff := range diffs {
		var prefix string

		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
			continue
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			out.WriteString(prefix)
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(out.String(), "\n")
}

func joinLines(keys []int) string {
	var out strings.Builder

	for _, key := range keys {
		out.WriteString(strconv.Itoa(key))
		out.WriteByte('\n')
	}

	return out.String()
}
