package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellxplore/domain/table"
)

func bubbleRow(pair, target string, prob, pval float64) table.Row {
	return table.Row{Fields: map[string]any{
		"Interacting_Pair": pair,
		"target":           target,
		"prob":             prob,
		"pval":             pval,
	}}
}

func TestBubbleSizeBuckets(t *testing.T) {
	cases := []struct {
		pValue float64
		size   float64
	}{
		{-1, 3},
		{0, 3},
		{0.001, 5},
		{0.01, 5},
		{0.04, 7},
		{0.05, 7},
		{0.5, 10},
		{1, 10},
		{2, 10},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.size, BubbleSize(tc.pValue), "p=%v", tc.pValue)
	}
}

func TestBubblePointsAndColorDomain(t *testing.T) {
	rows := []table.Row{
		bubbleRow("CXCL12|CXCR4", "Tcell", 0.9, 0.001),
		bubbleRow("TGFB1|TGFBR1", "Bcell", 0.2, 0.04),
	}

	series := Bubble(rows, "Interacting_Pair", "target", "prob", "pval")
	require.Len(t, series.Points, 2)

	assert.Equal(t, "CXCL12|CXCR4", series.Points[0].X)
	assert.Equal(t, "Tcell", series.Points[0].Y)
	assert.Equal(t, 5.0, series.Points[0].Size)
	assert.Equal(t, 0.9, series.Points[0].Color)
	assert.Equal(t, 7.0, series.Points[1].Size)

	assert.Equal(t, 0.2, series.ColorDomain.Min)
	assert.Equal(t, 0.9, series.ColorDomain.Max)
	assert.True(t, series.SortedDescendingByProbability)
}

func TestBubbleDetectsUnsortedInput(t *testing.T) {
	rows := []table.Row{
		bubbleRow("a", "t", 0.1, 0.01),
		bubbleRow("b", "t", 0.8, 0.01),
	}

	series := Bubble(rows, "Interacting_Pair", "target", "prob", "pval")
	assert.False(t, series.SortedDescendingByProbability)
}

func TestBubbleMissingFieldsUseDefaults(t *testing.T) {
	rows := []table.Row{
		{Fields: map[string]any{"Interacting_Pair": "a", "target": "t"}},
	}

	series := Bubble(rows, "Interacting_Pair", "target", "prob", "pval")
	require.Len(t, series.Points, 1)
	assert.Equal(t, 5.0, series.Points[0].Size, "missing p defaults into the 0.01 bucket")
	assert.Equal(t, 0.0, series.Points[0].Color)
}

func TestBubbleEmptyRows(t *testing.T) {
	series := Bubble(nil, "x", "y", "prob", "pval")
	assert.Empty(t, series.Points)
	assert.Zero(t, series.ColorDomain)
	assert.True(t, series.SortedDescendingByProbability)
}
