package auth

import (
	"context"
	"errors"
	"net/http"

	"travelagency/internal/middleware"
	"travelagency/internal/pkg/response"
	"travelagency/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the account endpoints that need no session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/admin/login", h.AdminLogin)
	rg.POST("/auth/reset-password", h.ResetPassword)
}

// RegisterCustomerRoutes exposes the session and profile endpoints. The
// caller mounts them behind the auth middleware.
func (h *Handler) RegisterCustomerRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/session", h.Session)
	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.UpdateProfile)
}

// RegisterAdminRoutes exposes account administration.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/export", h.ExportUsers)
	rg.DELETE("/users/:email", middleware.SuperOnly(), h.DeleteUser)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration data", details)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordMismatch):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration data",
				map[string]string{"confirmPassword": "must match password"})
		case errors.Is(err, ErrWeakPassword):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration data",
				map[string]string{"password": "must be at least 8 characters with an upper-case letter, a lower-case letter and a digit"})
		case errors.Is(err, ErrEmailAlreadyExists):
			response.ErrorWithDetails(c, http.StatusConflict, "EMAIL_EXISTS", "An account with this email already exists",
				map[string]string{"email": "already registered"})
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register account")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) Login(c *gin.Context) {
	h.login(c, h.service.Login)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, h.service.AdminLogin)
}

func (h *Handler) login(c *gin.Context, op func(ctx context.Context, req LoginRequest) (*LoginResult, error)) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid login data", details)
		return
	}

	result, err := op(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reset data", details)
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordMismatch):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reset data",
				map[string]string{"confirmPassword": "must match password"})
		case errors.Is(err, ErrWeakPassword):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reset data",
				map[string]string{"password": "must be at least 8 characters with an upper-case letter, a lower-case letter and a digit"})
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No account with this email")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reset password")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": req.Email})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"loggedOut": true})
}

func (h *Handler) Session(c *gin.Context) {
	current, found, err := h.service.CurrentUser(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load session")
		return
	}
	if !found {
		response.Success(c, http.StatusOK, gin.H{"loggedIn": false})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"loggedIn": true, "user": current})
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, found, err := h.service.Profile(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}
	if !found {
		response.Success(c, http.StatusOK, gin.H{"profile": nil})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": p})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), c.GetString("email"), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": p})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

func (h *Handler) ExportUsers(c *gin.Context) {
	data, err := h.service.ExportUsersCSV(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export users")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="registered_users.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	deleted, err := h.service.DeleteUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": c.Param("email"), "deleted": deleted})
}
