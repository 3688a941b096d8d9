package handler

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"crash-clustering/internal/models"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles projection requests
type ProjectHandler struct {
	service    ProjectionService
	defaultRef float64
}

// ProjectionService interface for dependency injection
type ProjectionService interface {
	Project(context.Context, models.GeoPoint, float64) models.PlanarPoint
}

// NewProjectHandler creates a new projection handler. defaultRef is used
// when the request has no ref parameter.
func NewProjectHandler(svc ProjectionService, defaultRef float64) *ProjectHandler {
	return &ProjectHandler{service: svc, defaultRef: defaultRef}
}

// Project godoc
//
//	@Summary	Project a coordinate onto the clustering plane
//	@Tags		projection
//	@Produce	json
//	@Param		lat	query		number	true	"latitude in degrees"
//	@Param		lon	query		number	true	"longitude in degrees"
//	@Param		ref	query		number	false	"reference meridian in degrees"
//	@Success	200	{object}	models.PlanarPoint
//	@Failure	400	{object}	map[string]string
//	@Router		/project [get]
func (h *ProjectHandler) Project(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
		return
	}

	ref := h.defaultRef
	if refStr := c.Query("ref"); refStr != "" {
		if ref, err = strconv.ParseFloat(refStr, 64); err != nil || math.IsNaN(ref) || math.IsInf(ref, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reference longitude"})
			return
		}
	}

	point := h.service.Project(c.Request.Context(), models.GeoPoint{Latitude: lat, Longitude: lon}, ref)
	c.JSON(http.StatusOK, point)
}
