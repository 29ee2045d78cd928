package query

import (
	"sort"

	"cellxplore/domain/table"
)

// Apply filters, sorts and truncates a row sequence according to the spec.
//
// The result is empty when either value set is empty: every chart requires the
// user to pick at least one source and one target before anything renders, so
// "no selection yet" is a normal state, not an error. Retained rows are sorted
// descending by probability with a stable tiebreak, because downstream
// per-pair truncation depends on a deterministic order.
func Apply(rows []table.Row, spec Spec) []table.Row {
	if len(spec.SourceValues) == 0 || len(spec.TargetValues) == 0 {
		return nil
	}

	sources := toSet(spec.SourceValues)
	targets := toSet(spec.TargetValues)

	filtered := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		src, _ := row.Str(spec.SourceField)
		if !sources[src] {
			continue
		}
		tgt, _ := row.Str(spec.TargetField)
		if !targets[tgt] {
			continue
		}
		if pValue(row, spec) > spec.PValueThreshold {
			continue
		}
		filtered = append(filtered, row)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return probability(filtered[i], spec) > probability(filtered[j], spec)
	})

	if spec.TopNPerPair <= 0 {
		return filtered
	}
	return capPerPair(filtered, spec)
}

// capPerPair keeps at most TopNPerPair rows per pairing-key group, in sorted
// order. This is a per-group truncation, not a global top-N: the total result
// can exceed N when multiple pairs survive.
func capPerPair(sorted []table.Row, spec Spec) []table.Row {
	kept := make([]table.Row, 0, len(sorted))
	perPair := make(map[string]int)
	for _, row := range sorted {
		pair, _ := row.Str(spec.PairField)
		if perPair[pair] >= spec.TopNPerPair {
			continue
		}
		perPair[pair]++
		kept = append(kept, row)
	}
	return kept
}

// pValue reads the row's p-value, defaulting missing values to DefaultPValue
// so rows with absent p-values are not filtered out. Threshold comparison is
// inclusive at the boundary.
func pValue(row table.Row, spec Spec) float64 {
	if v, ok := row.Num(spec.PValueField); ok {
		return v
	}
	return DefaultPValue
}

func probability(row table.Row, spec Spec) float64 {
	if v, ok := row.Num(spec.ProbabilityField); ok {
		return v
	}
	return DefaultProbability
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
