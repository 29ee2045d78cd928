package table

import (
	"encoding/json"
)

// Kind classifies a column for the filtering UI. Mixed columns are treated as
// categorical, which is the safer default for value pickers.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindNumeric     Kind = "numeric"
)

// Row is one record of the tabular dataset. ID is the ingestion-order index
// assigned at build time; it is the identity used for selection membership and
// is never re-derived from content, since content (e.g. a source/target pair)
// is not guaranteed unique.
type Row struct {
	ID     int
	Fields map[string]any
}

// Str returns the string value of a field, if present and a string.
func (r Row) Str(field string) (string, bool) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Num returns the numeric value of a field. JSON decoding yields float64, but
// file sources may produce ints, so both are accepted.
func (r Row) Num(field string) (float64, bool) {
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Clone returns a deep copy of the row. Saved selections clone their rows so a
// stored Selection is a value snapshot, unaffected by later dataset reloads.
func (r Row) Clone() Row {
	fields := make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{ID: r.ID, Fields: fields}
}

// Fingerprint returns a structural identity for the row, used as the union
// fallback when a row carries no ingestion id. encoding/json sorts map keys,
// so equal field sets produce equal fingerprints.
func (r Row) Fingerprint() string {
	b, err := json.Marshal(r.Fields)
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalJSON emits the row as a flat object with the ingestion id injected
// under "id", matching the shape chart consumers expect.
func (r Row) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		flat[k] = v
	}
	flat["id"] = r.ID
	return json.Marshal(flat)
}

// NumericStats summarizes a numeric column at ingestion time.
type NumericStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Missing int     `json:"missing"`
}

// Column describes a single field of the dataset.
type Column struct {
	Name  string        `json:"name"`
	Kind  Kind          `json:"kind"`
	Stats *NumericStats `json:"stats,omitempty"`
}
