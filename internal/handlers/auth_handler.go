package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sosnovich/skyward/internal/dto"
	"github.com/sosnovich/skyward/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a credentials pair and issues a token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.Credentials
	if err := c.BodyParser(&req); err != nil {
		return malformedBody(c, err)
	}
	if err := req.Validate(); err != nil {
		return validationFailure(c, err, &req)
	}

	token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return serviceError(c, err)
	}

	return c.JSON(dto.AuthResponse{Token: token})
}
