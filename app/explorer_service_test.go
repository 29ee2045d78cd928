package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellxplore/domain/core"
	"cellxplore/internal/config"
	"cellxplore/internal/datacache"
	"cellxplore/internal/selection"
)

type memorySource struct {
	records []map[string]any
}

func (s *memorySource) FetchRows(ctx context.Context) ([]map[string]any, error) {
	return s.records, nil
}

func (s *memorySource) Describe() string { return "memory" }

func testFields() config.FieldConfig {
	return config.FieldConfig{
		Source:      "source",
		Target:      "target",
		Probability: "prob",
		PValue:      "pval",
		Pair:        "Interacting_Pair",
	}
}

func newTestService(t *testing.T) *ExplorerService {
	t.Helper()
	records := []map[string]any{
		{"source": "Microglia", "target": "Astrocyte", "prob": 0.9, "pval": 0.001, "Interacting_Pair": "CXCL12|CXCR4"},
		{"source": "Microglia", "target": "Neuron", "prob": 0.7, "pval": 0.04, "Interacting_Pair": "TGFB1|TGFBR1"},
		{"source": "Astrocyte", "target": "Neuron", "prob": 0.5, "pval": 0.2, "Interacting_Pair": "IL6|IL6R"},
	}
	cache := datacache.New(&memorySource{records: records})
	_, err := cache.Load(context.Background())
	require.NoError(t, err)
	return NewExplorerService(cache, selection.NewStore(), testFields())
}

func TestScopeRowsEmptyNameMeansFullDataset(t *testing.T) {
	svc := newTestService(t)

	rows, err := svc.ScopeRows("")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestScopeRowsUnknownSelection(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ScopeRows("missing")
	assert.True(t, core.IsNotFound(err))
}

func TestScopeRowsSelectionScope(t *testing.T) {
	svc := newTestService(t)

	all, _ := svc.ScopeRows("")
	_, err := svc.Store().Save("two", all[:2])
	require.NoError(t, err)

	rows, err := svc.ScopeRows("two")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFilteredRowsValidatesSpec(t *testing.T) {
	svc := newTestService(t)

	spec := svc.DefaultSpec()
	spec.PValueField = "wrong"
	spec.SourceValues = []string{"Microglia"}
	spec.TargetValues = []string{"Neuron"}

	_, err := svc.FilteredRows("", spec)
	require.Error(t, err)
	assert.True(t, core.IsContractViolation(err))
}

func TestFrequencyDefaultsToAllLabels(t *testing.T) {
	svc := newTestService(t)

	fm, err := svc.Frequency("", nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Astrocyte", "Microglia", "Neuron"}, fm.Labels)
}

func TestSummaryComputesAllAggregates(t *testing.T) {
	svc := newTestService(t)

	spec := svc.DefaultSpec()
	spec.SourceValues = []string{"Microglia", "Astrocyte"}
	spec.TargetValues = []string{"Astrocyte", "Neuron"}
	spec.PValueThreshold = 0.05

	summary, err := svc.Summary(context.Background(), SummaryRequest{
		Spec:          spec,
		CategoryField: "target",
		YField:        "target",
	})
	require.NoError(t, err)

	assert.Len(t, summary.Frequency.Labels, 3)
	assert.Equal(t, []string{"Astrocyte", "Microglia"}, summary.Proportions.Groups)
	assert.Len(t, summary.Chord.Nodes, 3, "one source node, two target nodes after filtering")
	assert.Len(t, summary.Bubble.Points, 2)
	assert.True(t, summary.Bubble.SortedDescendingByProbability)
}

func TestSummaryUnknownScope(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Summary(context.Background(), SummaryRequest{Scope: "missing", Spec: svc.DefaultSpec()})
	assert.True(t, core.IsNotFound(err))
}

func TestBubbleOverFilteredRows(t *testing.T) {
	records := []map[string]any{
		{"source": "A", "target": "B", "prob": 0.9, "pval": 0.01, "Interacting_Pair": "p1"},
		{"source": "A", "target": "C", "prob": 0.5, "pval": 0.2, "Interacting_Pair": "p2"},
		{"source": "B", "target": "C", "prob": 0.8, "pval": 0.04, "Interacting_Pair": "p3"},
	}
	cache := datacache.New(&memorySource{records: records})
	_, err := cache.Load(context.Background())
	require.NoError(t, err)
	svc := NewExplorerService(cache, selection.NewStore(), testFields())

	spec := svc.DefaultSpec()
	spec.SourceValues = []string{"A", "B"}
	spec.TargetValues = []string{"B", "C"}
	spec.PValueThreshold = 0.05

	series, err := svc.Bubble("", spec, "", "target")
	require.NoError(t, err)
	require.Len(t, series.Points, 2, "the 0.2 p-value row is excluded")

	assert.Equal(t, "p1", series.Points[0].X, "highest probability first")
	assert.Equal(t, 5.0, series.Points[0].Size)
	assert.Equal(t, "p3", series.Points[1].X)
	assert.Equal(t, 7.0, series.Points[1].Size)
	assert.Equal(t, 0.8, series.ColorDomain.Min)
	assert.Equal(t, 0.9, series.ColorDomain.Max)
	assert.True(t, series.SortedDescendingByProbability)
}

func TestServiceBeforeLoadReportsUnavailable(t *testing.T) {
	cache := datacache.New(&memorySource{})
	svc := NewExplorerService(cache, selection.NewStore(), testFields())

	_, err := svc.Dataset()
	assert.True(t, core.IsDataUnavailable(err))

	_, err = svc.ScopeRows("")
	assert.True(t, core.IsDataUnavailable(err))
}
