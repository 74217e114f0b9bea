package promotion

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
	rg.GET("/promotions", h.ListPromotions)
	rg.PUT("/promotions", middleware.SuperOnly(), h.UpsertPromotion)
	rg.DELETE("/promotions/:code", middleware.SuperOnly(), h.DeletePromotion)
}

func (h *Handler) ListPromotions(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load promotions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promotions": list})
}

func (h *Handler) UpsertPromotion(c *gin.Context) {
	var p domain.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.Upsert(c.Request.Context(), p); err != nil {
		if errors.Is(err, ErrCodeRequired) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Promotion code is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save promotion")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"code": p.Code})
}

func (h *Handler) DeletePromotion(c *gin.Context) {
	deleted, err := h.service.Delete(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete promotion")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"code": c.Param("code"), "deleted": deleted})
}
