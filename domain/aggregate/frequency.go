package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"cellxplore/domain/table"
)

// Frequency builds the source/target co-occurrence matrix for the given label
// order. Counts always derive from the full row sequence passed in; labels may
// be a superset or subset chosen independently (e.g. every categorical value
// present, or just the cell types the user picked), and pairs outside the
// label set simply count zero.
//
// With orderBySum, labels are re-sorted descending by total incident count
// (row sum plus column sum) and both axes are permuted together. Matrix values
// are never altered by reordering.
func Frequency(rows []table.Row, sourceField, targetField string, labels []string, orderBySum bool) FrequencyMatrix {
	type pair struct{ src, tgt string }
	counts := make(map[pair]float64)
	for _, row := range rows {
		src, _ := row.Str(sourceField)
		tgt, _ := row.Str(targetField)
		counts[pair{src, tgt}]++
	}

	matrix := make([][]float64, len(labels))
	for i, src := range labels {
		matrix[i] = make([]float64, len(labels))
		for j, tgt := range labels {
			matrix[i][j] = counts[pair{src, tgt}]
		}
	}

	result := FrequencyMatrix{Labels: labels, Matrix: matrix}
	if !orderBySum {
		return result
	}
	return orderByIncidence(result)
}

// orderByIncidence permutes labels and matrix rows/columns together so the
// most connected labels come first.
func orderByIncidence(fm FrequencyMatrix) FrequencyMatrix {
	n := len(fm.Labels)
	totals := make([]float64, n)
	for i := range fm.Matrix {
		totals[i] += floats.Sum(fm.Matrix[i])
		for j := range fm.Matrix[i] {
			totals[j] += fm.Matrix[i][j]
		}
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return totals[perm[a]] > totals[perm[b]]
	})

	labels := make([]string, n)
	matrix := make([][]float64, n)
	for i, from := range perm {
		labels[i] = fm.Labels[from]
		matrix[i] = make([]float64, n)
		for j, col := range perm {
			matrix[i][j] = fm.Matrix[from][col]
		}
	}
	return FrequencyMatrix{Labels: labels, Matrix: matrix, OrderedBySum: true}
}
