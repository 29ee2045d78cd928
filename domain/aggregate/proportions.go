package aggregate

import (
	"sort"

	"cellxplore/domain/table"
)

// Proportions computes the stacked-proportion table of category occurrence per
// group, restricted to the topNCategories most frequent categories overall
// (ties broken by first-encountered order; topNCategories <= 0 keeps all).
//
// Each proportion is the category's count within the group divided by the
// group's total count over the retained categories only: restricting to top N
// deliberately changes the denominator. A group whose rows all fall outside
// the retained categories produces all-zero proportions rather than failing.
func Proportions(rows []table.Row, groupField, categoryField string, topNCategories int) ProportionTable {
	type cell struct{ group, category string }
	counts := make(map[cell]float64)
	categoryTotals := make(map[string]float64)
	var categoryOrder []string
	groupSet := make(map[string]bool)

	for _, row := range rows {
		group, ok := row.Str(groupField)
		if !ok {
			continue
		}
		category, ok := row.Str(categoryField)
		if !ok {
			continue
		}
		if !groupSet[group] {
			groupSet[group] = true
		}
		if _, seen := categoryTotals[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		counts[cell{group, category}]++
		categoryTotals[category]++
	}

	groups := make([]string, 0, len(groupSet))
	for g := range groupSet {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	retained := retainTopCategories(categoryOrder, categoryTotals, topNCategories)

	series := make(map[string][]float64, len(retained))
	for _, category := range retained {
		series[category] = make([]float64, len(groups))
	}
	for gi, group := range groups {
		var denom float64
		for _, category := range retained {
			denom += counts[cell{group, category}]
		}
		if denom == 0 {
			continue // all-zero column
		}
		for _, category := range retained {
			series[category][gi] = counts[cell{group, category}] / denom
		}
	}

	// Legend/stacking order: ascending total contribution across groups, so
	// dominant categories end up at a predictable stacking edge.
	ordered := make([]string, len(retained))
	copy(ordered, retained)
	contribution := make(map[string]float64, len(retained))
	for _, category := range retained {
		var total float64
		for _, p := range series[category] {
			total += p
		}
		contribution[category] = total
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return contribution[ordered[i]] < contribution[ordered[j]]
	})

	return ProportionTable{Groups: groups, Categories: ordered, Series: series}
}

// retainTopCategories keeps the topN most frequent categories, preserving
// first-encountered order as the tiebreak.
func retainTopCategories(order []string, totals map[string]float64, topN int) []string {
	if topN <= 0 || topN >= len(order) {
		return order
	}
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i]] > totals[ranked[j]]
	})
	return ranked[:topN]
}
