package ports

import "context"

// RowSource fetches the raw records a Dataset is built from. The HTTP data
// service and local CSV/XLSX files both satisfy it; the cache treats either as
// a black box.
type RowSource interface {
	// FetchRows retrieves every record of the dataset. Implementations return
	// an error for unreachable sources or non-tabular content.
	FetchRows(ctx context.Context) ([]map[string]any, error)

	// Describe identifies the source for logs and error messages.
	Describe() string
}
