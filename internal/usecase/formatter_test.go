package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas-core/internal/domain/entity"
)

func TestComputeStats(t *testing.T) {
	t.Run("min <= median <= max and mean within range", func(t *testing.T) {
		cases := [][]float64{
			{1},
			{3, 1, 2},
			{-5, 10, 2.5, 2.5},
			{0, 0, 0},
			{1e9, -1e9, 42},
		}
		for _, vs := range cases {
			rows := make([]entity.Row, len(vs))
			for i, v := range vs {
				rows[i] = entity.Row{"x": v}
			}
			s := computeStats(rows)["x"]
			assert.Equal(t, len(vs), s.Count)
			assert.LessOrEqual(t, s.Min, s.Median, "values: %v", vs)
			assert.LessOrEqual(t, s.Median, s.Max, "values: %v", vs)
			assert.GreaterOrEqual(t, s.Mean, s.Min, "values: %v", vs)
			assert.LessOrEqual(t, s.Mean, s.Max, "values: %v", vs)
		}
	})

	t.Run("empty input yields zero stats", func(t *testing.T) {
		s := statsFor(nil)
		assert.Zero(t, s.Count)
		assert.Zero(t, s.Min)
		assert.Zero(t, s.Max)
		assert.Zero(t, s.Mean)
		assert.Zero(t, s.Median)
	})

	t.Run("even count medians average the middle pair", func(t *testing.T) {
		s := statsFor([]float64{1, 2, 3, 4})
		assert.Equal(t, 2.5, s.Median)
	})

	t.Run("coerces numeric strings and integers", func(t *testing.T) {
		rows := []entity.Row{
			{"v": "2.5", "name": "alpha"},
			{"v": int64(3), "name": "beta"},
			{"v": float32(4.5), "name": "gamma"},
		}
		stats := computeStats(rows)
		require.Contains(t, stats, "v")
		assert.Equal(t, 3, stats["v"].Count)
		assert.NotContains(t, stats, "name")
	})
}

func TestBuildContext(t *testing.T) {
	t.Run("sections appear in fixed order", func(t *testing.T) {
		doc := BuildContext("q", &AgentResults{
			Relational: &entity.AgentResult{Success: true, RowCount: 1, Rows: []entity.Row{{"a": 1.0}}},
			Analytical: &entity.AgentResult{Success: true, RowCount: 1, Rows: []entity.Row{{"b": 2.0}}},
			Literature: &entity.AgentResult{Success: true, Citations: []entity.Citation{{ID: "x", Title: "T", Year: 2020}}},
		})
		iRel := strings.Index(doc, "=== FLOAT METADATA & STATUS ===")
		iAna := strings.Index(doc, "=== PROFILE MEASUREMENTS ===")
		iLit := strings.Index(doc, "=== LITERATURE ===")
		require.True(t, iRel >= 0 && iAna >= 0 && iLit >= 0)
		assert.Less(t, iRel, iAna)
		assert.Less(t, iAna, iLit)
		assert.NotContains(t, doc, "NO DATA RETRIEVED")
	})

	t.Run("echoes a bounded row prefix with a remainder note", func(t *testing.T) {
		rows := make([]entity.Row, 25)
		for i := range rows {
			rows[i] = entity.Row{"temperature_c": float64(i)}
		}
		doc := BuildContext("q", &AgentResults{
			Analytical: &entity.AgentResult{Success: true, RowCount: len(rows), Rows: rows},
		})
		assert.Contains(t, doc, fmt.Sprintf("Sample rows (%d of 25)", analyticalSampleRows))
		assert.Contains(t, doc, fmt.Sprintf("(%d more rows not shown)", 25-analyticalSampleRows))
		// Stats still cover the full set.
		assert.Contains(t, doc, "Summary statistics over all 25 rows")
		assert.Contains(t, doc, "max=24")
	})

	t.Run("relational and analytical caps differ", func(t *testing.T) {
		rows := make([]entity.Row, 25)
		for i := range rows {
			rows[i] = entity.Row{"battery_voltage": float64(i)}
		}
		doc := BuildContext("q", &AgentResults{
			Relational: &entity.AgentResult{Success: true, RowCount: len(rows), Rows: rows},
		})
		assert.Contains(t, doc, fmt.Sprintf("Sample rows (%d of 25)", relationalSampleRows))
	})

	t.Run("total failure appends the no-data notice", func(t *testing.T) {
		doc := BuildContext("q", &AgentResults{
			Relational: &entity.AgentResult{Success: false, Error: "store unreachable"},
			Analytical: &entity.AgentResult{Success: false, Error: "bucket unreachable"},
		})
		assert.Contains(t, doc, "Retrieval failed: store unreachable")
		assert.Contains(t, doc, "Retrieval failed: bucket unreachable")
		assert.Contains(t, doc, "NO DATA RETRIEVED")
	})

	t.Run("partial success omits the notice", func(t *testing.T) {
		doc := BuildContext("q", &AgentResults{
			Relational: &entity.AgentResult{Success: true, RowCount: 0},
			Analytical: &entity.AgentResult{Success: false, Error: "down"},
		})
		assert.Contains(t, doc, "The query matched no rows.")
		assert.NotContains(t, doc, "NO DATA RETRIEVED")
	})

	t.Run("citations render with ids and years", func(t *testing.T) {
		doc := BuildContext("q", &AgentResults{
			Literature: &entity.AgentResult{Success: true, Citations: []entity.Citation{{
				ID: "roemmich-2009", Title: "The Argo Program",
				Authors: []string{"Roemmich, D."}, Year: 2009,
				Journal: "Oceanography", Relevance: 0.95, Excerpt: "Array design.",
			}}},
		})
		assert.Contains(t, doc, "[roemmich-2009] The Argo Program (Roemmich, D., 2009, Oceanography)")
		assert.Contains(t, doc, "relevance=0.95")
	})
}
