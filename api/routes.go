package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatmesh/mailstack/api/middleware"
	"github.com/chatmesh/mailstack/internal/logger"
	"github.com/chatmesh/mailstack/internal/tracing"
	"github.com/chatmesh/mailstack/services"
)

const apiKeyHeader = "X-MAILSTACK-API-KEY"

func RegisterRoutes(r *gin.Engine, svcs *services.Services, log logger.Logger, apiKey string) {
	r.GET("/health", healthHandler())

	protected := r.Group("/")
	protected.Use(middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  apiKeyHeader,
		ValidAPIKey: apiKey,
	}))

	protected.POST("/scan", scanFoldersHandler(svcs, log))
	protected.GET("/folders", listFoldersHandler(svcs, log))
}

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// scanFoldersHandler triggers a full folder scan. A scan suppressed by
// the debounce gate still returns 200; the scan is an idempotent no-op
// in that case.
func scanFoldersHandler(svcs *services.Services, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := tracing.StartTracerSpan(c.Request.Context(), "POST /scan")
		defer span.Finish()
		tracing.TagComponentRest(span)

		if err := svcs.IMAPService.ScanFolders(ctx); err != nil {
			tracing.TraceErr(span, err)
			log.Errorf("Folder scan failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "completed"})
	}
}

// listFoldersHandler lists remote folder names, minus the names given
// in the repeated "exclude" query parameter.
func listFoldersHandler(svcs *services.Services, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := tracing.StartTracerSpan(c.Request.Context(), "GET /folders")
		defer span.Finish()
		tracing.TagComponentRest(span)

		exclude := c.QueryArray("exclude")

		folders, err := svcs.IMAPService.ListFoldersExcept(ctx, exclude)
		if err != nil {
			tracing.TraceErr(span, err)
			log.Errorf("Listing folders failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"folders": folders})
	}
}
