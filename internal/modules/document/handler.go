package document

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.GET("/documents", h.ListDocuments)
	rg.POST("/documents", h.AddDocument)
	rg.DELETE("/documents/:index", middleware.SuperOnly(), h.DeleteDocument)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load documents")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"documents": list})
}

func (h *Handler) AddDocument(c *gin.Context) {
	var d domain.Document
	if err := c.ShouldBindJSON(&d); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.Add(c.Request.Context(), d); err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Customer email and document type are required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save document")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"customerEmail": d.CustomerEmail, "type": d.Type})
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Document index must be a number")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), index)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete document")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}
