package middleware

import (
	"strings"

	"go-retail-api/internal/repository"
	"go-retail-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and loads the user from the
// database, so a deactivated account loses access even while its token
// is still live.
func RequireAuth(tokens *jwt.Manager, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "invalid authorization format, use: Bearer <token>"})
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "user not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "user account is inactive"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_email", user.Email)
		c.Locals("user_role", user.Role)

		return c.Next()
	}
}

// RequireRole lets only the named role past. RequireAuth must have run
// earlier in the chain.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("user_role").(string)
		if !ok || userRole != role {
			return c.Status(403).JSON(fiber.Map{"success": false, "error": "forbidden: requires '" + role + "' role"})
		}
		return c.Next()
	}
}
