package middleware

import (
	"time"

	"catalog-search-backend/config"
	"catalog-search-backend/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Logout revokes the token that authenticated the request. It must run after
// ProtectedRoute, which stores the verified payload.
func Logout(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, ok := c.Locals("user").(*token.Payload)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}

		if ctx.Sessions != nil {
			if err := ctx.Sessions.Revoke(c.Context(), payload); err != nil {
				config.Logger.Error("Failed to revoke token during logout",
					zap.String("payload_id", payload.ID.String()),
					zap.Error(err),
				)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Something went wrong",
					"error":   "An internal server error occurred.",
				})
			}
		}

		// Clear the cookie in case the token came from there
		c.Cookie(&fiber.Cookie{
			Name:     "access_token",
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
			Path:     "/",
		})

		config.Logger.Info("User logged out", zap.String("subject", payload.Subject))
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
	}
}
