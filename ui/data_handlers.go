package ui

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cellxplore/domain/query"
	"cellxplore/domain/table"
)

// handleDataTable returns the loaded dataset as rows plus column metadata.
// Pagination is optional; the default returns everything, matching the
// table view's client-side paging.
func (s *Server) handleDataTable(c *gin.Context) {
	ds, err := s.explorer.Dataset()
	if err != nil {
		respondError(c, err)
		return
	}

	rows := ds.Rows()
	offset, limit := paging(c, len(rows))
	c.JSON(http.StatusOK, gin.H{
		"rows":      rows[offset : offset+limit],
		"columns":   ds.Columns(),
		"total":     ds.Len(),
		"loaded_at": ds.LoadedAt(),
	})
}

// FilterTableRequest is the body of POST /filter-table. SelectionName scopes
// the query to a saved selection; empty means the full dataset. With no
// source/target values the scope's rows come back unfiltered, which is the
// "view a saved selection as a table" case.
type FilterTableRequest struct {
	SelectionName   string   `json:"selection_name"`
	SourceValues    []string `json:"source_values"`
	TargetValues    []string `json:"target_values"`
	PValueThreshold *float64 `json:"p_value_threshold"`
	ThresholdIndex  *int     `json:"threshold_index"`
	TopNPerPair     int      `json:"top_n_per_pair"`
	SaveAs          string   `json:"save_as"`
}

func (s *Server) handleFilterTable(c *gin.Context) {
	var req FilterTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var rows []table.Row
	var err error
	if len(req.SourceValues) == 0 && len(req.TargetValues) == 0 {
		rows, err = s.explorer.ScopeRows(req.SelectionName)
	} else {
		spec := s.explorer.DefaultSpec()
		spec.SourceValues = req.SourceValues
		spec.TargetValues = req.TargetValues
		spec.TopNPerPair = req.TopNPerPair
		if req.ThresholdIndex != nil {
			spec.PValueThreshold = query.ThresholdAt(*req.ThresholdIndex)
		}
		if req.PValueThreshold != nil {
			spec.PValueThreshold = *req.PValueThreshold
		}
		rows, err = s.explorer.FilteredRows(req.SelectionName, spec)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if req.SaveAs != "" {
		if _, err := s.explorer.Store().Save(req.SaveAs, rows); err != nil {
			respondError(c, err)
			return
		}
	}

	if rows == nil {
		rows = []table.Row{}
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"count": len(rows),
	})
}

// handleColumns lists column metadata, optionally restricted by kind.
func (s *Server) handleColumns(c *gin.Context) {
	ds, err := s.explorer.Dataset()
	if err != nil {
		respondError(c, err)
		return
	}

	switch kind := c.Query("kind"); kind {
	case "":
		c.JSON(http.StatusOK, gin.H{"columns": ds.Columns()})
	case string(table.KindCategorical), string(table.KindNumeric):
		c.JSON(http.StatusOK, gin.H{"columns": ds.ColumnsOfKind(table.Kind(kind))})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown column kind: " + kind})
	}
}

// handleColumnValues lists the distinct values of one categorical column, for
// source/target pickers.
func (s *Server) handleColumnValues(c *gin.Context) {
	ds, err := s.explorer.Dataset()
	if err != nil {
		respondError(c, err)
		return
	}

	name := c.Param("name")
	if !ds.HasColumn(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown column: " + name})
		return
	}
	values := ds.DistinctValues(name)
	if values == nil {
		values = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"column": name,
		"values": values,
		"count":  len(values),
	})
}

// handleRefresh reloads the dataset from its source. A failed reload keeps
// the previous dataset serving and reports the source error.
func (s *Server) handleRefresh(c *gin.Context) {
	ds, err := s.explorer.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":      ds.Len(),
		"columns":   len(ds.Columns()),
		"loaded_at": ds.LoadedAt(),
	})
}

func paging(c *gin.Context, total int) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 || offset > total {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(total)))
	if limit < 0 || offset+limit > total {
		limit = total - offset
	}
	return offset, limit
}

// splitParam parses a comma-separated query parameter into its values.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
