package middleware

import (
	"strings"

	"catalog-search-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProtectedRoute accepts a bearer token or an access_token cookie
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c.Get(fiber.HeaderAuthorization))
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		if accessToken == "" {
			config.Logger.Debug("No access token provided in request")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}

		payload, err := ctx.PasetoMaker.VerifyToken(accessToken)
		if err != nil {
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Session expired or invalid. Please log in again.",
			})
		}

		if ctx.Sessions != nil {
			revoked, err := ctx.Sessions.IsRevoked(c.Context(), payload.ID.String())
			if err != nil {
				config.Logger.Error("Error checking token revocation",
					zap.String("payload_id", payload.ID.String()),
					zap.Error(err),
				)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Something went wrong",
					"error":   "An internal server error occurred.",
				})
			}
			if revoked {
				config.Logger.Warn("Revoked token used",
					zap.String("payload_id", payload.ID.String()),
					zap.String("subject", payload.Subject),
				)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Unauthorized",
					"error":   "Session invalid. Please log in again.",
				})
			}
		}

		c.Locals("user", payload)
		return c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
