package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mirasocial/mira-client/internal/model"
	"github.com/mirasocial/mira-client/internal/stream"
)

// StreamHandler handles live-stream control.
type StreamHandler struct {
	streams *stream.Manager
}

// NewStreamHandler creates a stream handler.
func NewStreamHandler(streams *stream.Manager) *StreamHandler {
	return &StreamHandler{streams: streams}
}

// Start handles POST /stream/start.
func (h *StreamHandler) Start(c *gin.Context) {
	var req model.StartStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	info, err := h.streams.StartStream(c.Request.Context(), req.Title)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Stop handles POST /stream/stop. Stopping when not live is a no-op.
func (h *StreamHandler) Stop(c *gin.Context) {
	if err := h.streams.StopStream(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Info handles GET /stream.
func (h *StreamHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.streams.Info())
}
