package booking

import (
	"context"
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

// RegisterPublicRoutes exposes the booking form endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
}

// RegisterAdminRoutes exposes the dashboard operations. Mutations are gated
// to the super role; staff sessions can only read and export.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/bookings/export", h.ExportBookings)
	rg.POST("/bookings/:id/approve", middleware.SuperOnly(), h.ApproveBooking)
	rg.POST("/bookings/:id/refund", middleware.SuperOnly(), h.RefundBooking)
	rg.DELETE("/bookings/:id", middleware.SuperOnly(), h.DeleteBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var raw domain.Booking
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	id, err := h.service.Create(c.Request.Context(), raw, SaveOptions{Source: "form"})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Tour, customer name, email, date and people are required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save booking")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"bookingId": id})
}

func filterFromQuery(c *gin.Context) Filter {
	return Filter{
		Query:   c.Query("q"),
		Status:  c.Query("status"),
		Payment: c.Query("payment"),
		From:    c.Query("from"),
		To:      c.Query("to"),
	}
}

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) ExportBookings(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export bookings")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="bookings.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *Handler) ApproveBooking(c *gin.Context) {
	h.mutation(c, h.service.Approve)
}

func (h *Handler) RefundBooking(c *gin.Context) {
	h.mutation(c, h.service.Refund)
}

func (h *Handler) DeleteBooking(c *gin.Context) {
	h.mutation(c, h.service.Delete)
}

// mutation runs an id-addressed action. An unknown id is a silent no-op, not
// an error, so the response just reports whether anything changed.
func (h *Handler) mutation(c *gin.Context, op func(ctx context.Context, id string) (bool, error)) {
	id := c.Param("id")
	updated, err := op(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update booking")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookingId": id, "updated": updated})
}
