package handler

import (
	"context"
	"errors"
	"net/http"

	"crash-clustering/internal/cluster"
	"crash-clustering/internal/models"
	"crash-clustering/internal/service"

	"github.com/gin-gonic/gin"
)

// ClusterHandler handles ad-hoc clustering requests
type ClusterHandler struct {
	service ClusterService
}

// ClusterService interface for dependency injection
type ClusterService interface {
	ClusterPoints(context.Context, []models.GeoPoint, cluster.Params) (*models.ClusterResult, error)
}

// ClusterRequest is the body of POST /cluster. Zero eps or min_samples
// keep the server defaults.
type ClusterRequest struct {
	Points     []models.GeoPoint `json:"points" binding:"required"`
	Eps        float64           `json:"eps"`
	MinSamples int               `json:"min_samples"`
}

// NewClusterHandler creates a new cluster handler
func NewClusterHandler(svc ClusterService) *ClusterHandler {
	return &ClusterHandler{service: svc}
}

// Cluster godoc
//
//	@Summary	Cluster points with DBSCAN
//	@Tags		cluster
//	@Accept		json
//	@Produce	json
//	@Param		request	body		ClusterRequest	true	"points and optional parameters"
//	@Success	200		{object}	models.ClusterResult
//	@Failure	400		{object}	map[string]string
//	@Failure	500		{object}	map[string]string
//	@Router		/cluster [post]
func (h *ClusterHandler) Cluster(c *gin.Context) {
	var req ClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	params := cluster.Params{Eps: req.Eps, MinSamples: req.MinSamples}
	result, err := h.service.ClusterPoints(c.Request.Context(), req.Points, params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidParams) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
