package main

import (
	"net/http"

	_ "crash-clustering/docs"
	"crash-clustering/internal/config"
	"crash-clustering/internal/handler"
	"crash-clustering/internal/logging"
	"crash-clustering/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title			Crash Clustering API
// @version		1.0
// @description	Density-based clustering of geographic crash records.
// @BasePath		/api/v1
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(config.LogLevel)

	// Initialize layers
	clusterService := service.NewClusterService(
		service.DBSCANFactory(config.IndexKind()),
		config.ClusterParams(),
		config.LongitudeReference,
	)

	clusterHandler := handler.NewClusterHandler(clusterService)
	projectHandler := handler.NewProjectHandler(clusterService, config.LongitudeReference)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/cluster", clusterHandler.Cluster)
	v1.GET("/project", projectHandler.Project)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Info().Str("address", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
