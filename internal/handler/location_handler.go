package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mirasocial/mira-client/internal/location"
)

// LocationHandler handles geolocation on the control API.
type LocationHandler struct {
	svc *location.Service
}

// NewLocationHandler creates a location handler.
func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// Current handles GET /location: one fresh fix.
func (h *LocationHandler) Current(c *gin.Context) {
	fix, err := h.svc.GetCurrentLocation(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fix)
}

// StartWatch handles POST /location/watch.
func (h *LocationHandler) StartWatch(c *gin.Context) {
	if err := h.svc.StartWatching(); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"watching": true})
}

// StopWatch handles DELETE /location/watch.
func (h *LocationHandler) StopWatch(c *gin.Context) {
	h.svc.StopWatching()
	c.Status(http.StatusNoContent)
}

// Last handles GET /location/last: the most recent fix without a new sample.
func (h *LocationHandler) Last(c *gin.Context) {
	fix := h.svc.LastFix()
	if fix == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no fix yet"})
		return
	}
	c.JSON(http.StatusOK, fix)
}

// Distance handles GET /location/distance?lat1=&lon1=&lat2=&lon2=.
func (h *LocationHandler) Distance(c *gin.Context) {
	coords := make([]float64, 4)
	for i, key := range []string{"lat1", "lon1", "lat2", "lon2"} {
		v, err := strconv.ParseFloat(c.Query(key), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a number"})
			return
		}
		coords[i] = v
	}
	km := location.CalculateDistance(coords[0], coords[1], coords[2], coords[3])
	c.JSON(http.StatusOK, gin.H{"distance_km": km})
}
