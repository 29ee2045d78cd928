package datacache

import (
	"context"
	"log"
	"sync"

	"cellxplore/domain/core"
	"cellxplore/domain/table"
	"cellxplore/ports"
)

// Cache holds the full tabular dataset, fetched once from a row source and
// immutable until the next explicit Load. All views read from it; a failed
// reload keeps the previous dataset in place rather than clearing it, so
// transient data-service outages never blank the dashboard.
type Cache struct {
	mu     sync.RWMutex
	source ports.RowSource
	ds     *table.Dataset
}

// New creates an empty cache over the given source.
func New(source ports.RowSource) *Cache {
	return &Cache{source: source}
}

// Load fetches the dataset and swaps it in atomically. Each load reassigns
// row ids 0..N-1 fresh; previously saved selections are unaffected since they
// hold row snapshots, not ids into the live dataset.
func (c *Cache) Load(ctx context.Context) (*table.Dataset, error) {
	records, err := c.source.FetchRows(ctx)
	if err != nil {
		log.Printf("[Cache] Fetch from %s failed, keeping previous dataset: %v", c.source.Describe(), err)
		return nil, core.NewDataUnavailableError(c.source.Describe(), err)
	}

	ds := table.Build(records)
	c.mu.Lock()
	c.ds = ds
	c.mu.Unlock()

	log.Printf("[Cache] Loaded %d rows, %d columns from %s", ds.Len(), len(ds.Columns()), c.source.Describe())
	return ds, nil
}

// Current returns the loaded dataset, if any.
func (c *Cache) Current() (*table.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ds, c.ds != nil
}

// ColumnsOfKind exposes column introspection for pickers without forcing
// callers through Current. Returns nil before the first successful load.
func (c *Cache) ColumnsOfKind(kind table.Kind) []string {
	ds, ok := c.Current()
	if !ok {
		return nil
	}
	return ds.ColumnsOfKind(kind)
}
