package handler

import (
	apperrors "go-stockwatch/internal/errors"
	"go-stockwatch/internal/middleware"
	"go-stockwatch/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.Status(httpErr.StatusCode).JSON(httpErr.ToErrorResponse())
	}

	return c.JSON(response)
}

// Logout ends the active session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := middleware.Principal(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.authService.Logout(principal); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.Status(httpErr.StatusCode).JSON(httpErr.ToErrorResponse())
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}
