// routes.go - Route registration helpers
package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shipper-lite/backend/internal/pipeline"
	"github.com/shipper-lite/backend/internal/store"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store     store.DocumentStore
	Processor *pipeline.Processor
	UploadDir string
	Logger    *slog.Logger
	Version   string
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, deps *Dependencies) {
	h := NewDocumentHandler(deps.Store, deps.Processor, deps.UploadDir, deps.Logger)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": deps.Version})
	})

	docs := e.Group("/api/v1/documents")
	docs.POST("/upload", h.HandleUpload)
	docs.POST("/check", h.HandleCheckText)
	docs.GET("/:id/status", h.HandleStatus)
	docs.GET("/:id/report", h.HandleReport)
	docs.GET("/:id/fields", h.HandleFields)
	docs.GET("/:id/debug", h.HandleDebug)
	docs.GET("/:id/report.xlsx", h.HandleReportXLSX)
}
