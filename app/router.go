// Package app wires the analysis core, its ports, and the HTTP routes.
package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/deformed-cactus/chessOpenings/auth"
)

// NewRouter builds the shared HTTP router.
func NewRouter() (*gin.Engine, error) {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/health", Health)

	verifier, err := auth.NewVerifierFromEnv()
	if err != nil && !auth.AuthDisabled() {
		return nil, err
	}

	protected := router.Group("/")
	protected.Use(auth.Middleware(verifier, auth.MiddlewareConfig{}))
	protected.POST("/openings/:name/analyze", StartOpeningAnalysis)
	protected.GET("/openings/:name/reports", GetOpeningReports)
	protected.GET("/jobs/:jobid", GetJobStatus)

	return router, nil
}
