package ui

import (
	"io"

	"github.com/gin-gonic/gin"
)

// handleEvents streams selection store changes over SSE, so every open
// dashboard sees saves, renames and deletes without polling.
func (s *Server) handleEvents(c *gin.Context) {
	store := s.explorer.Store()
	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
