package spreadsheet

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

// describeLabels are the summary rows, in output order.
var describeLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Description holds the descriptive statistics of one numeric column.
// Std is the sample standard deviation. Quartiles use linear
// interpolation between closest ranks.
type Description struct {
	Count float64
	Mean  float64
	Std   float64
	Min   float64
	Q1    float64
	Q2    float64
	Q3    float64
	Max   float64
}

// values returns the statistics in describeLabels order.
func (d Description) values() []float64 {
	return []float64{d.Count, d.Mean, d.Std, d.Min, d.Q1, d.Q2, d.Q3, d.Max}
}

// Describe computes descriptive statistics, ignoring NaN values.
// Without values every statistic except Count is NaN.
func Describe(values []float64) Description {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}

	nan := math.NaN()
	if len(present) == 0 {
		return Description{Mean: nan, Std: nan, Min: nan, Q1: nan, Q2: nan, Q3: nan, Max: nan}
	}

	sorted := make([]float64, len(present))
	copy(sorted, present)
	sort.Float64s(sorted)

	return Description{
		Count: float64(len(present)),
		Mean:  stat.Mean(present, nil),
		Std:   stat.StdDev(present, nil),
		Min:   floats.Min(present),
		Q1:    quantile(sorted, 0.25),
		Q2:    quantile(sorted, 0.5),
		Q3:    quantile(sorted, 0.75),
		Max:   floats.Max(present),
	}
}

// quantile interpolates linearly between the closest ranks of sorted
// values at position p*(n-1).
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// renderDescribe renders the summary table of the numeric columns.
func renderDescribe(columns []domain.Column) string {
	index := append([]string{""}, describeLabels...)

	rendered := make([][]string, 0, len(columns))
	for _, col := range columns {
		stats := Describe(col.Values).values()
		decimals := commonDecimals(stats)
		cells := make([]string, 0, len(stats)+1)
		cells = append(cells, col.Name)
		for _, v := range stats {
			cells = append(cells, formatFloat(v, decimals))
		}
		rendered = append(rendered, cells)
	}

	return joinColumns(index, rendered, "  ")
}
