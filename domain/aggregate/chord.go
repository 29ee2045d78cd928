package aggregate

import (
	"fmt"
	"sort"

	"cellxplore/domain/table"
)

// topRowsPerCell caps how many contributing rows a matrix cell retains for
// tooltip inspection.
const topRowsPerCell = 10

// defaultWeight stands in for rows whose weight field is missing, so an
// interaction without a recorded probability still draws a ribbon.
const defaultWeight = 1.0

// Chord aggregates rows into the weighted source/target matrix behind the
// chord and sankey views. Every distinct source value becomes a source-role
// node and every distinct target value a target-role node; a value appearing
// in both roles yields two nodes, keeping the layout hemispheres separate.
//
// If no rows remain after filtering, the aggregate comes back with empty nodes
// and an empty matrix; callers handle "nothing to draw" explicitly.
func Chord(rows []table.Row, sourceField, targetField, weightField string) ChordAggregate {
	if len(rows) == 0 {
		return ChordAggregate{Matrix: [][]float64{}, Details: map[CellKey]CellDetail{}}
	}

	sourceIdx := make(map[string]int)
	targetIdx := make(map[string]int)
	var sources, targets []string
	for _, row := range rows {
		src, _ := row.Str(sourceField)
		if _, ok := sourceIdx[src]; !ok {
			sourceIdx[src] = len(sources)
			sources = append(sources, src)
		}
		tgt, _ := row.Str(targetField)
		if _, ok := targetIdx[tgt]; !ok {
			targetIdx[tgt] = len(targets)
			targets = append(targets, tgt)
		}
	}

	nodes := make([]Node, 0, len(sources)+len(targets))
	for _, src := range sources {
		nodes = append(nodes, Node{ID: fmt.Sprintf("%s (source)", src), Label: src, Role: RoleSource})
	}
	for _, tgt := range targets {
		nodes = append(nodes, Node{ID: fmt.Sprintf("%s (target)", tgt), Label: tgt, Role: RoleTarget})
	}

	n := len(nodes)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	details := make(map[CellKey]CellDetail)
	for _, row := range rows {
		src, _ := row.Str(sourceField)
		tgt, _ := row.Str(targetField)
		weight, ok := row.Num(weightField)
		if !ok {
			weight = defaultWeight
		}

		i := sourceIdx[src]
		j := len(sources) + targetIdx[tgt]
		matrix[i][j] += weight

		key := CellKey{Source: i, Target: j}
		detail := details[key]
		detail.Count++
		detail.TopRows = append(detail.TopRows, RowDetail{RowID: row.ID, Weight: weight})
		details[key] = detail
	}

	for key, detail := range details {
		sort.SliceStable(detail.TopRows, func(a, b int) bool {
			return detail.TopRows[a].Weight > detail.TopRows[b].Weight
		})
		if len(detail.TopRows) > topRowsPerCell {
			detail.TopRows = detail.TopRows[:topRowsPerCell]
		}
		details[key] = detail
	}

	return ChordAggregate{Nodes: nodes, Matrix: matrix, Details: details}
}

func sortDetailCells(cells []DetailCell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Source != cells[j].Source {
			return cells[i].Source < cells[j].Source
		}
		return cells[i].Target < cells[j].Target
	})
}
