package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cellxplore/domain/table"
)

// SelectionSummary is the list representation of a saved selection. Rows are
// omitted; the table view fetches them through /filter-table.
type SelectionSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListSelections(c *gin.Context) {
	store := s.explorer.Store()
	names := store.Names()
	summaries := make([]SelectionSummary, 0, len(names))
	for _, name := range names {
		sel, ok := store.Get(name)
		if !ok {
			continue
		}
		summaries = append(summaries, SelectionSummary{
			ID:        string(sel.ID),
			Name:      sel.Name,
			Count:     len(sel.Rows),
			CreatedAt: sel.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"selections": summaries,
		"count":      len(summaries),
	})
}

// SaveSelectionRequest carries the rows to save. RowIDs references rows of the
// live dataset by ingestion id, the normal path for lasso and table picks.
// Rows carries raw row objects for clients that hold snapshots of their own;
// those rows get no ingestion id and dedupe structurally in unions.
type SaveSelectionRequest struct {
	RowIDs []int            `json:"row_ids"`
	Rows   []map[string]any `json:"rows"`
}

func (s *Server) handleSaveSelection(c *gin.Context) {
	var req SaveSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	rows, err := s.resolveRows(req)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []table.Row{}
	}

	sel, err := s.explorer.Store().Save(c.Param("name"), rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    sel.ID,
		"name":  sel.Name,
		"count": len(sel.Rows),
	})
}

func (s *Server) resolveRows(req SaveSelectionRequest) ([]table.Row, error) {
	var rows []table.Row
	if len(req.RowIDs) > 0 {
		ds, err := s.explorer.Dataset()
		if err != nil {
			return nil, err
		}
		all := ds.Rows()
		for _, id := range req.RowIDs {
			if id < 0 || id >= len(all) {
				continue
			}
			rows = append(rows, all[id])
		}
	}
	for _, fields := range req.Rows {
		rows = append(rows, table.Row{ID: -1, Fields: fields})
	}
	return rows, nil
}

func (s *Server) handleDeleteSelection(c *gin.Context) {
	name := c.Param("name")
	if err := s.explorer.Store().Delete(name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

func (s *Server) handleRenameSelection(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	oldName := c.Param("name")
	if err := s.explorer.Store().Rename(oldName, req.NewName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"old_name": oldName,
		"name":     req.NewName,
	})
}

// handleSelectionUnion merges the named selections into one deduplicated row
// set, e.g. /selections/union?names=tumor,stroma.
func (s *Server) handleSelectionUnion(c *gin.Context) {
	names := splitParam(c.Query("names"))
	if len(names) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "names query parameter is required"})
		return
	}

	rows, err := s.explorer.Store().Union(names...)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []table.Row{}
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"count": len(rows),
	})
}
