// Package aggregate holds the pure transformation functions that turn a
// filtered row sequence into the derived shape each visualization consumes.
// Nothing here mutates the dataset or the selection store; every function is
// recomputed from its inputs.
package aggregate

// FrequencyMatrix is a co-occurrence count matrix over an ordered label set,
// consumed by the heatmap view. Matrix[i][j] counts rows going from Labels[i]
// to Labels[j].
type FrequencyMatrix struct {
	Labels       []string    `json:"labels"`
	Matrix       [][]float64 `json:"matrix"`
	OrderedBySum bool        `json:"ordered_by_sum"`
}

// ProportionTable feeds the stacked proportion bar chart. Series maps each
// retained category to its per-group proportions, aligned with Groups.
// Categories carries the stacking/legend order, ascending by total
// contribution across groups.
type ProportionTable struct {
	Groups     []string             `json:"groups"`
	Categories []string             `json:"categories"`
	Series     map[string][]float64 `json:"series"`
}

// NodeRole distinguishes a value's appearance as a source from its appearance
// as a target. The two roles are separate node identities so chord/sankey
// layouts keep their hemispheres apart.
type NodeRole string

const (
	RoleSource NodeRole = "source"
	RoleTarget NodeRole = "target"
)

// Node is one endpoint of the chord/sankey aggregate graph.
type Node struct {
	ID    string   `json:"id"` // role-tagged, e.g. "Microglia (source)"
	Label string   `json:"label"`
	Role  NodeRole `json:"role"`
}

// RowDetail is one contributing row retained for tooltip inspection.
type RowDetail struct {
	RowID  int     `json:"row_id"`
	Weight float64 `json:"weight"`
}

// CellKey addresses one (source node, target node) cell of the chord matrix.
type CellKey struct {
	Source int
	Target int
}

// CellDetail holds per-cell inspection data: how many rows contributed and the
// top contributors ranked by weight descending.
type CellDetail struct {
	Count   int         `json:"count"`
	TopRows []RowDetail `json:"top_rows"`
}

// DetailCell is the JSON-friendly rendering of a matrix cell's detail.
type DetailCell struct {
	Source int `json:"source"`
	Target int `json:"target"`
	CellDetail
}

// ChordAggregate is the weighted source/target matrix behind the chord and
// sankey views. Matrix[i][j] is the sum of the weight field over rows with
// that exact pair, not a row count.
type ChordAggregate struct {
	Nodes   []Node      `json:"nodes"`
	Matrix  [][]float64 `json:"matrix"`
	Details map[CellKey]CellDetail
}

// DetailCells flattens the cell detail map for JSON transport, ordered by
// (source, target) index.
func (a ChordAggregate) DetailCells() []DetailCell {
	cells := make([]DetailCell, 0, len(a.Details))
	for key, detail := range a.Details {
		cells = append(cells, DetailCell{Source: key.Source, Target: key.Target, CellDetail: detail})
	}
	sortDetailCells(cells)
	return cells
}

// BubblePoint is one marker of the ranked bubble series.
type BubblePoint struct {
	X     string  `json:"x"`
	Y     string  `json:"y"`
	Size  float64 `json:"size"`
	Color float64 `json:"color"`
}

// ColorDomain is the continuous color-scale domain, recomputed per query over
// the current filtered rows rather than fixed globally.
type ColorDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RankedBubbleSeries feeds the bubble plot: one point per filtered row, sized
// by the discrete p-value scale and colored by probability.
type RankedBubbleSeries struct {
	Points                        []BubblePoint `json:"points"`
	ColorDomain                   ColorDomain   `json:"color_domain"`
	SortedDescendingByProbability bool          `json:"sorted_descending_by_probability"`
}
