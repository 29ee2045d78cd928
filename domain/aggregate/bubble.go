package aggregate

import (
	"github.com/montanaflynn/stats"

	"cellxplore/domain/query"
	"cellxplore/domain/table"
)

// bubbleSizes are the discrete marker sizes paired with the filter engine's
// p-value threshold vocabulary: p <= 0 -> 3, p <= 0.01 -> 5, p <= 0.05 -> 7,
// anything larger -> 10. Reusing query.PValueThresholds keeps the size scale
// and the threshold slider in exact agreement at the bucket edges.
var bubbleSizes = [4]float64{3, 5, 7, 10}

// BubbleSize maps a p-value onto the discrete size scale.
func BubbleSize(pValue float64) float64 {
	for i, threshold := range query.PValueThresholds {
		if pValue <= threshold {
			return bubbleSizes[i]
		}
	}
	return bubbleSizes[len(bubbleSizes)-1]
}

// Bubble builds the ranked bubble series: one point per row, positioned by the
// caller-chosen encoding columns, sized by p-value and colored by probability.
// The color-scale domain is the [min, max] of the probability field over the
// rows given, recomputed per query.
//
// Rows arrive already sorted by the filter engine; the sorted flag is verified
// rather than assumed so consumers can trust it.
func Bubble(rows []table.Row, xField, yField, probabilityField, pValueField string) RankedBubbleSeries {
	points := make([]BubblePoint, 0, len(rows))
	probs := make([]float64, 0, len(rows))
	sorted := true

	for i, row := range rows {
		x, _ := row.Str(xField)
		y, _ := row.Str(yField)

		p, ok := row.Num(pValueField)
		if !ok {
			p = query.DefaultPValue
		}
		prob, ok := row.Num(probabilityField)
		if !ok {
			prob = query.DefaultProbability
		}

		if i > 0 && prob > probs[i-1] {
			sorted = false
		}
		probs = append(probs, prob)
		points = append(points, BubblePoint{X: x, Y: y, Size: BubbleSize(p), Color: prob})
	}

	var domain ColorDomain
	if len(probs) > 0 {
		if min, err := stats.Min(probs); err == nil {
			domain.Min = min
		}
		if max, err := stats.Max(probs); err == nil {
			domain.Max = max
		}
	}

	return RankedBubbleSeries{
		Points:                        points,
		ColorDomain:                   domain,
		SortedDescendingByProbability: sorted,
	}
}
