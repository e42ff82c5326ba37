package usecase

import (
	"fmt"
	"sort"
	"strings"

	"atlas-core/internal/domain/entity"
)

// Row echo caps per store type. Statistics always cover the full result
// set; only the echoed prefix is bounded to keep the synthesis prompt small.
const (
	relationalSampleRows = 10
	analyticalSampleRows = 5
)

const noDataNotice = `NO DATA RETRIEVED: every retrieval attempt for this question failed.
Answer from general oceanographic knowledge, state clearly that live data
was unavailable, and do not present any value as a retrieved measurement.`

// BuildContext serializes heterogeneous agent results into one bounded
// text document for the synthesizer, in fixed section order.
func BuildContext(question string, results *AgentResults) string {
	var b strings.Builder

	b.WriteString("USER QUESTION:\n")
	b.WriteString(question)
	b.WriteString("\n")

	if results.Relational != nil {
		b.WriteString("\n=== FLOAT METADATA & STATUS ===\n")
		writeResultSection(&b, results.Relational, relationalSampleRows)
	}
	if results.Analytical != nil {
		b.WriteString("\n=== PROFILE MEASUREMENTS ===\n")
		writeResultSection(&b, results.Analytical, analyticalSampleRows)
	}
	if results.Literature != nil {
		b.WriteString("\n=== LITERATURE ===\n")
		writeLiteratureSection(&b, results.Literature)
	}
	if results.AllFailed() {
		b.WriteString("\n")
		b.WriteString(noDataNotice)
		b.WriteString("\n")
	}

	return b.String()
}

func writeResultSection(b *strings.Builder, res *entity.AgentResult, sampleRows int) {
	if !res.Success {
		fmt.Fprintf(b, "Retrieval failed: %s\n", res.Error)
		return
	}
	if res.RowCount == 0 {
		b.WriteString("The query matched no rows.\n")
		return
	}

	stats := computeStats(res.Rows)
	if len(stats) > 0 {
		fmt.Fprintf(b, "Summary statistics over all %d rows:\n", res.RowCount)
		for _, col := range sortedKeys(stats) {
			s := stats[col]
			fmt.Fprintf(b, "- %s: min=%.4g max=%.4g mean=%.4g median=%.4g\n",
				col, s.Min, s.Max, s.Mean, s.Median)
		}
	}

	shown := res.Rows
	if len(shown) > sampleRows {
		shown = shown[:sampleRows]
	}
	fmt.Fprintf(b, "Sample rows (%d of %d):\n", len(shown), res.RowCount)
	for _, row := range shown {
		b.WriteString(formatRow(row))
		b.WriteString("\n")
	}
	if res.RowCount > len(shown) {
		fmt.Fprintf(b, "(%d more rows not shown)\n", res.RowCount-len(shown))
	}
}

func writeLiteratureSection(b *strings.Builder, res *entity.AgentResult) {
	if !res.Success {
		fmt.Fprintf(b, "Literature lookup failed: %s\n", res.Error)
		return
	}
	if len(res.Citations) == 0 {
		b.WriteString("No relevant publications found.\n")
		return
	}
	for _, c := range res.Citations {
		fmt.Fprintf(b, "[%s] %s (%s, %d", c.ID, c.Title, strings.Join(c.Authors, "; "), c.Year)
		if c.Journal != "" {
			fmt.Fprintf(b, ", %s", c.Journal)
		}
		fmt.Fprintf(b, ") relevance=%.2f", c.Relevance)
		if c.Excerpt != "" {
			fmt.Fprintf(b, " — %s", c.Excerpt)
		}
		b.WriteString("\n")
	}
}

func formatRow(row entity.Row) string {
	parts := make([]string, 0, len(row))
	for _, col := range sortedRowKeys(row) {
		parts = append(parts, fmt.Sprintf("%s=%v", col, row[col]))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]columnStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRowKeys(m entity.Row) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
