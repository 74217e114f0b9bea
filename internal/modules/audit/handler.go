package audit

import (
	"net/http"

	"travelagency/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit", h.ListEntries)
	rg.GET("/audit/export", h.ExportEntries)
}

// ActorMiddleware copies the authenticated identity into the request context
// so service-level audit appends can attribute entries.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if email := c.GetString("email"); email != "" {
			c.Request = c.Request.WithContext(WithActor(c.Request.Context(), email))
		}
		c.Next()
	}
}

func (h *Handler) ListEntries(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load audit log")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": list})
}

func (h *Handler) ExportEntries(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export audit log")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="audit_log.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
