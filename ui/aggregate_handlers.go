package ui

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cellxplore/app"
	"cellxplore/domain/query"
)

// specFromQuery overlays the request's filter parameters onto the configured
// default spec. Shared by every aggregate endpoint so a chord and a bubble
// request with the same parameters filter identically.
func (s *Server) specFromQuery(c *gin.Context) query.Spec {
	spec := s.explorer.DefaultSpec()
	spec.SourceValues = splitParam(c.Query("sources"))
	spec.TargetValues = splitParam(c.Query("targets"))
	if raw := c.Query("threshold_index"); raw != "" {
		if idx, err := strconv.Atoi(raw); err == nil {
			spec.PValueThreshold = query.ThresholdAt(idx)
		}
	}
	if raw := c.Query("p_value_threshold"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			spec.PValueThreshold = v
		}
	}
	if raw := c.Query("top_n_per_pair"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			spec.TopNPerPair = n
		}
	}
	return spec
}

// handleFrequency serves the heatmap matrix. It counts over the scope's full
// row set; label restriction is the only narrowing applied.
func (s *Server) handleFrequency(c *gin.Context) {
	scope := c.Query("scope")
	labels := splitParam(c.Query("labels"))
	orderBySum := c.Query("order_by_sum") == "true"

	matrix, err := s.explorer.Frequency(scope, labels, orderBySum)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matrix)
}

// handleProportions serves the stacked-proportion table for two categorical
// columns, e.g. /aggregates/proportions?group=source&category=pathway&top_n=10.
func (s *Server) handleProportions(c *gin.Context) {
	group := c.Query("group")
	category := c.Query("category")
	if group == "" || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group and category query parameters are required"})
		return
	}
	topN, _ := strconv.Atoi(c.Query("top_n"))

	table, err := s.explorer.Proportions(c.Query("scope"), group, category, topN)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// handleChord serves the weighted source/target matrix with per-cell detail.
func (s *Server) handleChord(c *gin.Context) {
	chord, err := s.explorer.Chord(c.Query("scope"), s.specFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.NewChordPayload(chord))
}

// handleBubble serves the ranked bubble series.
func (s *Server) handleBubble(c *gin.Context) {
	series, err := s.explorer.Bubble(c.Query("scope"), s.specFromQuery(c), c.Query("x"), c.Query("y"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// handleSummary computes every aggregate for one scope and filter in a single
// request, for initial dashboard render.
func (s *Server) handleSummary(c *gin.Context) {
	topN, _ := strconv.Atoi(c.Query("top_n"))
	req := app.SummaryRequest{
		Scope:          c.Query("scope"),
		Spec:           s.specFromQuery(c),
		Labels:         splitParam(c.Query("labels")),
		OrderBySum:     c.Query("order_by_sum") == "true",
		GroupField:     c.Query("group"),
		CategoryField:  c.Query("category"),
		TopNCategories: topN,
		XField:         c.Query("x"),
		YField:         c.Query("y"),
	}

	summary, err := s.explorer.Summary(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
