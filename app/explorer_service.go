package app

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"cellxplore/domain/aggregate"
	"cellxplore/domain/core"
	"cellxplore/domain/query"
	"cellxplore/domain/table"
	"cellxplore/internal/config"
	"cellxplore/internal/datacache"
	"cellxplore/internal/selection"
)

// ExplorerService binds the dataset cache, the selection store and the
// configured field mapping into the operations the HTTP surface exposes.
// Chart-specific handlers only select which aggregate they need and which
// columns feed it; all filtering and aggregation lives here and below.
type ExplorerService struct {
	cache  *datacache.Cache
	store  *selection.Store
	fields config.FieldConfig
}

// NewExplorerService creates the service over an already-constructed cache
// and store, so tests can instantiate isolated instances.
func NewExplorerService(cache *datacache.Cache, store *selection.Store, fields config.FieldConfig) *ExplorerService {
	return &ExplorerService{cache: cache, store: store, fields: fields}
}

// Store exposes the selection store for the selection CRUD handlers.
func (s *ExplorerService) Store() *selection.Store { return s.store }

// Fields returns the configured column mapping.
func (s *ExplorerService) Fields() config.FieldConfig { return s.fields }

// Dataset returns the loaded dataset or ErrDataUnavailable before the first
// successful load.
func (s *ExplorerService) Dataset() (*table.Dataset, error) {
	ds, ok := s.cache.Current()
	if !ok {
		return nil, core.ErrDataUnavailable
	}
	return ds, nil
}

// Refresh reloads the dataset from its source. On failure the previous
// dataset keeps serving; saved selections are never touched.
func (s *ExplorerService) Refresh(ctx context.Context) (*table.Dataset, error) {
	return s.cache.Load(ctx)
}

// ScopeRows resolves a scope name to its row sequence: the empty name means
// the full dataset, anything else names a saved selection.
func (s *ExplorerService) ScopeRows(scope string) ([]table.Row, error) {
	if scope == "" {
		ds, err := s.Dataset()
		if err != nil {
			return nil, err
		}
		return ds.Rows(), nil
	}
	sel, ok := s.store.Get(scope)
	if !ok {
		return nil, core.NewNotFoundError(scope)
	}
	return sel.Rows, nil
}

// FilteredRows validates the spec against the loaded dataset's columns, then
// applies the filter engine to the scope's rows.
func (s *ExplorerService) FilteredRows(scope string, spec query.Spec) ([]table.Row, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(ds); err != nil {
		return nil, err
	}
	rows, err := s.ScopeRows(scope)
	if err != nil {
		return nil, err
	}
	return query.Apply(rows, spec), nil
}

// DefaultSpec returns a spec prefilled with the configured field names and
// the permissive threshold; handlers overlay the user's picks onto it.
func (s *ExplorerService) DefaultSpec() query.Spec {
	return query.Spec{
		SourceField:      s.fields.Source,
		TargetField:      s.fields.Target,
		ProbabilityField: s.fields.Probability,
		PValueField:      s.fields.PValue,
		PairField:        s.fields.Pair,
		PValueThreshold:  query.PValueThresholds[len(query.PValueThresholds)-1],
	}
}

// Frequency computes the co-occurrence matrix over the scope's full row set.
// An empty label list means every source and target value present, sorted,
// matching the heatmap's "all cell types" default.
func (s *ExplorerService) Frequency(scope string, labels []string, orderBySum bool) (aggregate.FrequencyMatrix, error) {
	rows, err := s.ScopeRows(scope)
	if err != nil {
		return aggregate.FrequencyMatrix{}, err
	}
	if len(labels) == 0 {
		labels = allLabels(rows, s.fields.Source, s.fields.Target)
	}
	return aggregate.Frequency(rows, s.fields.Source, s.fields.Target, labels, orderBySum), nil
}

// Proportions computes the stacked-proportion table over the scope's rows for
// two caller-chosen categorical columns.
func (s *ExplorerService) Proportions(scope, groupField, categoryField string, topNCategories int) (aggregate.ProportionTable, error) {
	ds, err := s.Dataset()
	if err != nil {
		return aggregate.ProportionTable{}, err
	}
	if !ds.HasColumn(groupField) {
		return aggregate.ProportionTable{}, core.NewUnknownFieldError(groupField)
	}
	if !ds.HasColumn(categoryField) {
		return aggregate.ProportionTable{}, core.NewUnknownFieldError(categoryField)
	}
	rows, err := s.ScopeRows(scope)
	if err != nil {
		return aggregate.ProportionTable{}, err
	}
	return aggregate.Proportions(rows, groupField, categoryField, topNCategories), nil
}

// Chord filters the scope's rows and aggregates them into the weighted
// source/target matrix, weighted by the configured probability field.
func (s *ExplorerService) Chord(scope string, spec query.Spec) (aggregate.ChordAggregate, error) {
	rows, err := s.FilteredRows(scope, spec)
	if err != nil {
		return aggregate.ChordAggregate{}, err
	}
	return aggregate.Chord(rows, spec.SourceField, spec.TargetField, spec.ProbabilityField), nil
}

// Bubble filters the scope's rows and builds the ranked bubble series with
// the caller's encoding columns.
func (s *ExplorerService) Bubble(scope string, spec query.Spec, xField, yField string) (aggregate.RankedBubbleSeries, error) {
	if xField == "" {
		xField = spec.PairField
	}
	rows, err := s.FilteredRows(scope, spec)
	if err != nil {
		return aggregate.RankedBubbleSeries{}, err
	}
	return aggregate.Bubble(rows, xField, yField, spec.ProbabilityField, spec.PValueField), nil
}

// SummaryRequest parameterizes the all-aggregates dashboard computation.
type SummaryRequest struct {
	Scope          string
	Spec           query.Spec
	Labels         []string
	OrderBySum     bool
	GroupField     string
	CategoryField  string
	TopNCategories int
	XField         string
	YField         string
}

// DashboardSummary carries every aggregate for one (scope, spec) pair.
type DashboardSummary struct {
	Frequency   aggregate.FrequencyMatrix    `json:"frequency"`
	Proportions aggregate.ProportionTable    `json:"proportions"`
	Chord       ChordPayload                 `json:"chord"`
	Bubble      aggregate.RankedBubbleSeries `json:"bubble"`
}

// ChordPayload is the JSON rendering of a chord aggregate, with the cell
// detail map flattened.
type ChordPayload struct {
	Nodes  []aggregate.Node       `json:"nodes"`
	Matrix [][]float64            `json:"matrix"`
	Cells  []aggregate.DetailCell `json:"cells"`
}

// NewChordPayload flattens a chord aggregate for transport.
func NewChordPayload(a aggregate.ChordAggregate) ChordPayload {
	return ChordPayload{Nodes: a.Nodes, Matrix: a.Matrix, Cells: a.DetailCells()}
}

// Summary computes all four aggregates for one scope and spec. The inputs are
// resolved once; the four pure aggregations then run concurrently.
func (s *ExplorerService) Summary(ctx context.Context, req SummaryRequest) (*DashboardSummary, error) {
	scopeRows, err := s.ScopeRows(req.Scope)
	if err != nil {
		return nil, err
	}
	filtered, err := s.FilteredRows(req.Scope, req.Spec)
	if err != nil {
		return nil, err
	}

	labels := req.Labels
	if len(labels) == 0 {
		labels = allLabels(scopeRows, s.fields.Source, s.fields.Target)
	}
	groupField := req.GroupField
	if groupField == "" {
		groupField = s.fields.Source
	}

	summary := &DashboardSummary{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary.Frequency = aggregate.Frequency(scopeRows, s.fields.Source, s.fields.Target, labels, req.OrderBySum)
		return nil
	})
	g.Go(func() error {
		if req.CategoryField == "" {
			return nil
		}
		props, err := s.Proportions(req.Scope, groupField, req.CategoryField, req.TopNCategories)
		if err != nil {
			return err
		}
		summary.Proportions = props
		return nil
	})
	g.Go(func() error {
		chord := aggregate.Chord(filtered, req.Spec.SourceField, req.Spec.TargetField, req.Spec.ProbabilityField)
		summary.Chord = NewChordPayload(chord)
		return nil
	})
	g.Go(func() error {
		xField := req.XField
		if xField == "" {
			xField = req.Spec.PairField
		}
		summary.Bubble = aggregate.Bubble(filtered, xField, req.YField, req.Spec.ProbabilityField, req.Spec.PValueField)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// allLabels collects the distinct union of source and target values, sorted.
func allLabels(rows []table.Row, sourceField, targetField string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, row := range rows {
		if src, ok := row.Str(sourceField); ok && !seen[src] {
			seen[src] = true
			labels = append(labels, src)
		}
		if tgt, ok := row.Str(targetField); ok && !seen[tgt] {
			seen[tgt] = true
			labels = append(labels, tgt)
		}
	}
	sort.Strings(labels)
	return labels
}
