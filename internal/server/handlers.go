package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ochairo/chromium-snapshots/internal/domain/entities"
	"github.com/ochairo/chromium-snapshots/internal/domain/interfaces"
)

// Resolver is the part of the download orchestrator the handlers use
type Resolver interface {
	Platforms() map[string]entities.PlatformConfig
	Resolve(ctx context.Context, platformKey, milestoneOrVersion string) (*entities.Resolution, error)
}

// Handler serves the platform listing and the download redirect
type Handler struct {
	resolver Resolver
	logger   interfaces.Logger
}

// NewHandler creates the API handler
func NewHandler(resolver Resolver, logger interfaces.Logger) *Handler {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Handler{resolver: resolver, logger: logger}
}

// RegisterRoutes registers the API routes
func (h *Handler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/platforms", h.ListPlatforms)
	router.HEAD("/platforms", h.ListPlatforms)
	router.GET("/download", h.Download)
	router.HEAD("/download", h.Download)
}

// ListPlatforms returns the platform table for the download page
func (h *Handler) ListPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, h.resolver.Platforms())
}

// Download redirects to the snapshot archive for ?platform=&version=
func (h *Handler) Download(c *gin.Context) {
	platform := c.Query("platform")
	version := c.Query("version")

	res, err := h.resolver.Resolve(c.Request.Context(), platform, version)
	if err != nil {
		h.writeError(c, err, platform, version)
		return
	}

	c.Redirect(http.StatusFound, res.URL)
}

// writeError answers with the error's status and caller-safe message.
// Server-side failures are logged with their cause.
func (h *Handler) writeError(c *gin.Context, err error, platform, version string) {
	status := entities.HTTPStatus(err)
	message := entities.PublicMessage(err)

	if status >= http.StatusInternalServerError {
		h.logger.Error("download resolution failed",
			interfaces.F("platform", platform),
			interfaces.F("version", version),
			interfaces.F("kind", entities.KindOf(err)),
			interfaces.Err(err))
	} else {
		h.logger.Debug("download rejected",
			interfaces.F("platform", platform),
			interfaces.F("version", version),
			interfaces.F("status", status),
			interfaces.F("message", message))
	}

	if message == "" {
		c.Status(status)
		return
	}
	c.String(status, message)
}
