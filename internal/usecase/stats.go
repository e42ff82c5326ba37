package usecase

import (
	"sort"
	"strconv"

	"atlas-core/internal/domain/entity"
)

// columnStats summarizes one numeric column over the full result set.
type columnStats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// computeStats derives per-column summary statistics over every row,
// independent of how many rows get echoed into the context document.
func computeStats(rows []entity.Row) map[string]columnStats {
	values := map[string][]float64{}
	for _, row := range rows {
		for col, v := range row {
			if f, ok := numericValue(v); ok {
				values[col] = append(values[col], f)
			}
		}
	}

	stats := map[string]columnStats{}
	for col, vs := range values {
		stats[col] = statsFor(vs)
	}
	return stats
}

func statsFor(vs []float64) columnStats {
	if len(vs) == 0 {
		return columnStats{}
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return columnStats{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}

// numericValue coerces store scalars to float64. The metadata store hands
// NUMERIC columns back as strings, so fully numeric strings count too.
func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
