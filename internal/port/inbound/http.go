package inbound

import "github.com/gin-gonic/gin"

// GenerationHttpPort serves the metered generation endpoints.
type GenerationHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup)
	Generate(c *gin.Context)
	GetStatus(c *gin.Context)
	ListUsage(c *gin.Context)
	ListFeatures(c *gin.Context)
}

// LegalHttpPort serves static legal pages.
type LegalHttpPort interface {
	RegisterRoutes(r *gin.RouterGroup)
	GetPage(c *gin.Context)
}
