package query

import (
	"cellxplore/domain/core"
	"cellxplore/domain/table"
)

// PValueThresholds is the fixed discrete threshold vocabulary. Sliders select
// an index into this set rather than an arbitrary float, so the UI and the
// engine agree exactly on boundary values. The bubble size scale uses the same
// vocabulary to keep the two subsystems consistent.
var PValueThresholds = [4]float64{0, 0.01, 0.05, 1}

const (
	// DefaultPValue is substituted for rows with a missing p-value so they are
	// not silently excluded by the threshold predicate.
	DefaultPValue = 0.01
	// DefaultProbability is substituted for rows with a missing probability.
	DefaultProbability = 0.0
)

// ThresholdAt maps a slider index to its threshold, clamping out-of-range
// indices to the permissive end.
func ThresholdAt(index int) float64 {
	if index < 0 {
		return PValueThresholds[0]
	}
	if index >= len(PValueThresholds) {
		return PValueThresholds[len(PValueThresholds)-1]
	}
	return PValueThresholds[index]
}

// Spec captures one reusable query shape: which columns carry the source,
// target, probability, p-value and pairing key, which values the user picked,
// and how to truncate. Pure data, constructed fresh per query.
type Spec struct {
	SourceField  string   `json:"source_field"`
	TargetField  string   `json:"target_field"`
	SourceValues []string `json:"source_values"`
	TargetValues []string `json:"target_values"`

	ProbabilityField string  `json:"probability_field"`
	PValueField      string  `json:"p_value_field"`
	PValueThreshold  float64 `json:"p_value_threshold"`

	// PairField identifies a logical interaction pair independent of the
	// source/target fields; TopNPerPair truncation groups by it.
	PairField string `json:"pair_field"`
	// TopNPerPair keeps at most N rows per pairing-key group. Zero or negative
	// keeps all rows.
	TopNPerPair int `json:"top_n_per_pair"`
}

// Validate checks every configured field against the loaded dataset's columns
// and fails fast with ErrUnknownField on a mismatch, rather than letting the
// engine silently treat a misspelled column as all-null.
func (s Spec) Validate(ds *table.Dataset) error {
	required := []string{s.SourceField, s.TargetField, s.ProbabilityField, s.PValueField}
	for _, field := range required {
		if field == "" {
			return core.NewUnknownFieldError(field)
		}
		if !ds.HasColumn(field) {
			return core.NewUnknownFieldError(field)
		}
	}
	if s.TopNPerPair > 0 {
		if s.PairField == "" || !ds.HasColumn(s.PairField) {
			return core.NewUnknownFieldError(s.PairField)
		}
	}
	return nil
}
