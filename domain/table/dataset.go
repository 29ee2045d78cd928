package table

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// kindSampleLimit caps how many rows are inspected for column kind inference.
const kindSampleLimit = 1000

// Dataset is an immutable ordered sequence of rows plus derived column
// metadata. A fresh load fully replaces it; there is no incremental merge.
type Dataset struct {
	rows     []Row
	columns  []Column
	index    map[string]int
	loadedAt time.Time
}

// Build constructs a Dataset from raw records, assigning each row its
// ingestion-order id and inferring column kinds from a sample.
func Build(records []map[string]any) *Dataset {
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{ID: i, Fields: rec}
	}

	columns := inferColumns(rows)
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col.Name] = i
	}

	return &Dataset{
		rows:     rows,
		columns:  columns,
		index:    index,
		loadedAt: time.Now(),
	}
}

// Rows returns the full row sequence in ingestion order.
func (d *Dataset) Rows() []Row { return d.rows }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// Columns returns column metadata in first-seen field order.
func (d *Dataset) Columns() []Column { return d.columns }

// Column looks up metadata for a single field.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// HasColumn reports whether a field exists in the loaded dataset.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnsOfKind returns the names of all columns of the given kind, in
// first-seen order. Every view uses this to populate its column pickers.
func (d *Dataset) ColumnsOfKind(kind Kind) []string {
	var names []string
	for _, col := range d.columns {
		if col.Kind == kind {
			names = append(names, col.Name)
		}
	}
	return names
}

// DistinctValues returns the sorted distinct non-null string values of a
// column, feeding source/target value pickers.
func (d *Dataset) DistinctValues(field string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, row := range d.rows {
		if s, ok := row.Str(field); ok && !seen[s] {
			seen[s] = true
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values
}

// inferColumns derives column order, kind and numeric summary statistics from
// a bounded sample of rows. A column is numeric only if every sampled non-null
// value is a number; anything mixed falls back to categorical.
func inferColumns(rows []Row) []Column {
	sample := rows
	if len(sample) > kindSampleLimit {
		sample = sample[:kindSampleLimit]
	}

	type fieldScan struct {
		hasString bool
		hasNumber bool
		hasOther  bool
		missing   int
		numeric   []float64
	}

	var order []string
	scans := make(map[string]*fieldScan)

	for _, row := range sample {
		for name, value := range row.Fields {
			scan, ok := scans[name]
			if !ok {
				scan = &fieldScan{}
				scans[name] = scan
				order = append(order, name)
			}
			switch v := value.(type) {
			case nil:
				scan.missing++
			case string:
				scan.hasString = true
			case float64:
				scan.hasNumber = true
				scan.numeric = append(scan.numeric, v)
			case int:
				scan.hasNumber = true
				scan.numeric = append(scan.numeric, float64(v))
			case int64:
				scan.hasNumber = true
				scan.numeric = append(scan.numeric, float64(v))
			default:
				scan.hasOther = true
			}
		}
	}

	// Map iteration order is random, so pin column order by sorting names and
	// re-walking the first sampled row to put its fields first. Rows from JSON
	// share a schema in practice; the sort is the deterministic tiebreak for
	// fields absent from row 0.
	sort.Strings(order)
	if len(sample) > 0 {
		order = frontLoadRowFields(order, sample[0])
	}

	columns := make([]Column, 0, len(order))
	for _, name := range order {
		scan := scans[name]
		kind := KindCategorical
		if scan.hasNumber && !scan.hasString && !scan.hasOther {
			kind = KindNumeric
		}
		col := Column{Name: name, Kind: kind}
		if kind == KindNumeric && len(scan.numeric) > 0 {
			col.Stats = numericSummary(scan.numeric, scan.missing)
		}
		columns = append(columns, col)
	}
	return columns
}

// frontLoadRowFields orders names so that fields present in the given row come
// first (sorted), followed by the remaining names (sorted).
func frontLoadRowFields(sorted []string, row Row) []string {
	ordered := make([]string, 0, len(sorted))
	var rest []string
	for _, name := range sorted {
		if _, ok := row.Fields[name]; ok {
			ordered = append(ordered, name)
		} else {
			rest = append(rest, name)
		}
	}
	return append(ordered, rest...)
}

// numericSummary computes column statistics, tolerating the degenerate cases
// the stats library errors on.
func numericSummary(values []float64, missing int) *NumericStats {
	summary := &NumericStats{Missing: missing}
	if min, err := stats.Min(values); err == nil {
		summary.Min = min
	}
	if max, err := stats.Max(values); err == nil {
		summary.Max = max
	}
	if mean, err := stats.Mean(values); err == nil {
		summary.Mean = mean
	}
	if sd, err := stats.StandardDeviation(values); err == nil {
		summary.StdDev = sd
	}
	return summary
}
