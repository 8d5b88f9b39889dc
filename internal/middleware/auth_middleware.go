package middleware

import (
	"strings"

	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"
	"go-stockwatch/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// RequireAuth validates the session token and sets the principal in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid token"})
		}

		// Check strict session against DB. Logout clears the stored version,
		// so a token from a logged-out session never matches.
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}

		if user.TokenVersion == "" || user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session has ended, please log in again"})
		}

		c.Locals(principalKey, model.Principal{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		})

		return c.Next()
	}
}

// RequireAction checks the role policy for the given action code. The policy
// table is the single place that decides which role may do what.
func RequireAction(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals(principalKey).(model.Principal)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No principal found"})
		}

		if !model.RoleAllows(principal.Role, action) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: '" + action + "' requires a higher role",
			})
		}

		return c.Next()
	}
}

// Principal returns the authenticated principal set by RequireAuth
func Principal(c *fiber.Ctx) (model.Principal, bool) {
	principal, ok := c.Locals(principalKey).(model.Principal)
	return principal, ok
}
