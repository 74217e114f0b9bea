package agent

import (
	"errors"
	"net/http"

	"travelagency/internal/domain"
	"travelagency/internal/middleware"
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
	rg.GET("/agents", h.ListAgents)
	rg.POST("/agents", middleware.SuperOnly(), h.AddAgent)
	rg.DELETE("/agents/:code", middleware.SuperOnly(), h.DeleteAgent)
}

func (h *Handler) ListAgents(c *gin.Context) {
	stats, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load agents")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"agents": stats})
}

func (h *Handler) AddAgent(c *gin.Context) {
	var a domain.Agent
	if err := c.ShouldBindJSON(&a); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.Add(c.Request.Context(), a); err != nil {
		if errors.Is(err, ErrNameRequired) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Agent name is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save agent")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"name": a.Name, "code": a.Code})
}

func (h *Handler) DeleteAgent(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete agent")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"code": c.Param("code"), "deleted": deleted})
}
