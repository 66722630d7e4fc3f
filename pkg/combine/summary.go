package combine

import (
	"sort"
	"strconv"
	"strings"
)

// renderSummary lists everything left out of the document. It returns the
// empty string when nothing was skipped.
func renderSummary(maxFileSizeMB float64, oversized []Oversize, skipped []Skip) string {
	if len(oversized) == 0 && len(skipped) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\n---\n\nSkipped Files Summary:\n")
	if len(oversized) > 0 {
		lines := make([]string, len(oversized))
		for i, o := range oversized {
			lines[i] = o.SummaryLine()
		}
		sb.WriteString("\nFiles skipped due to size limit (")
		sb.WriteString(strconv.FormatFloat(maxFileSizeMB, 'f', -1, 64))
		sb.WriteString(" MB):\n - ")
		sb.WriteString(strings.Join(lines, "\n - "))
		sb.WriteString("\n")
	}
	if len(skipped) > 0 {
		lines := make([]string, len(skipped))
		for i, s := range skipped {
			lines[i] = s.SummaryLine()
		}
		sb.WriteString("\nFiles skipped due to ignore rules, errors, or binary detection:\n - ")
		sb.WriteString(strings.Join(lines, "\n - "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// selectionSkips merges ignored and errored entries back into traversal order.
func selectionSkips(result SelectionResult) []Skip {
	merged := make([]Skip, 0, len(result.Ignored)+len(result.Errored))
	merged = append(merged, result.Ignored...)
	merged = append(merged, result.Errored...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].seq < merged[j].seq
	})
	return merged
}
