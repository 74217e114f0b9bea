package dashboard

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
	rg.GET("/dashboard/kpis", h.GetKPIs)
	rg.GET("/dashboard/alerts", h.GetAlerts)
	rg.GET("/dashboard/notifications", h.GetNotifications)
}

func (h *Handler) GetKPIs(c *gin.Context) {
	k, err := h.service.KPIs(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute KPIs")
		return
	}
	response.Success(c, http.StatusOK, k)
}

func (h *Handler) GetAlerts(c *gin.Context) {
	items, err := h.service.Alerts(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to evaluate alerts")
		return
	}
	if len(items) == 0 {
		response.Success(c, http.StatusOK, gin.H{"alerts": []string{}, "message": "No alerts."})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"alerts": items})
}

func (h *Handler) GetNotifications(c *gin.Context) {
	n, err := h.service.Notifications(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load notifications")
		return
	}
	response.Success(c, http.StatusOK, n)
}
