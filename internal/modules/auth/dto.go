package auth

import "travelagency/internal/domain"

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	ContactNumber   string `json:"contactNumber"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type UpdateProfileRequest struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

type LoginResult struct {
	Token string             `json:"token"`
	Role  string             `json:"role"`
	User  domain.CurrentUser `json:"user"`
}
