package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAssignsIngestionOrderIDs(t *testing.T) {
	ds := Build([]map[string]any{
		{"source": "A"},
		{"source": "B"},
		{"source": "C"},
	})

	require.Equal(t, 3, ds.Len())
	for i, row := range ds.Rows() {
		assert.Equal(t, i, row.ID)
	}
}

func TestInferColumnKinds(t *testing.T) {
	ds := Build([]map[string]any{
		{"source": "A", "prob": 0.5, "mixed": "x", "empty": nil},
		{"source": "B", "prob": 0.9, "mixed": 1.0, "empty": nil},
	})

	col, ok := ds.Column("source")
	require.True(t, ok)
	assert.Equal(t, KindCategorical, col.Kind)

	col, ok = ds.Column("prob")
	require.True(t, ok)
	assert.Equal(t, KindNumeric, col.Kind)
	require.NotNil(t, col.Stats)
	assert.Equal(t, 0.5, col.Stats.Min)
	assert.Equal(t, 0.9, col.Stats.Max)
	assert.InDelta(t, 0.7, col.Stats.Mean, 1e-9)

	col, ok = ds.Column("mixed")
	require.True(t, ok)
	assert.Equal(t, KindCategorical, col.Kind, "mixed string/number falls back to categorical")

	assert.False(t, ds.HasColumn("absent"))
}

func TestColumnsOfKind(t *testing.T) {
	ds := Build([]map[string]any{
		{"source": "A", "target": "B", "prob": 0.5, "pval": 0.01},
	})

	assert.ElementsMatch(t, []string{"source", "target"}, ds.ColumnsOfKind(KindCategorical))
	assert.ElementsMatch(t, []string{"prob", "pval"}, ds.ColumnsOfKind(KindNumeric))
}

func TestDistinctValuesSortedAndDeduplicated(t *testing.T) {
	ds := Build([]map[string]any{
		{"source": "B"},
		{"source": "A"},
		{"source": "B"},
		{"source": nil},
	})

	assert.Equal(t, []string{"A", "B"}, ds.DistinctValues("source"))
	assert.Empty(t, ds.DistinctValues("absent"))
}

func TestRowCloneIsIndependent(t *testing.T) {
	row := Row{ID: 7, Fields: map[string]any{"source": "A"}}
	clone := row.Clone()
	clone.Fields["source"] = "B"

	assert.Equal(t, "A", row.Fields["source"])
	assert.Equal(t, 7, clone.ID)
}

func TestRowFingerprintStructuralEquality(t *testing.T) {
	a := Row{ID: 1, Fields: map[string]any{"x": "1", "y": 2.0}}
	b := Row{ID: 2, Fields: map[string]any{"y": 2.0, "x": "1"}}
	c := Row{ID: 3, Fields: map[string]any{"x": "1", "y": 3.0}}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "ids do not participate")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestRowMarshalInjectsID(t *testing.T) {
	row := Row{ID: 4, Fields: map[string]any{"source": "A"}}
	b, err := json.Marshal(row)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(b, &flat))
	assert.Equal(t, 4.0, flat["id"])
	assert.Equal(t, "A", flat["source"])
}

func TestBuildEmptyRecords(t *testing.T) {
	ds := Build(nil)
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Columns())
}
