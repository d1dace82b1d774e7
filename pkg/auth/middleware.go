package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// BearerAuth requires "Authorization: Bearer <jwt>" when HTTP_JWT_SECRET is
// set and passes every request through otherwise. The token subject is
// stored in Locals("client").
func BearerAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Enabled() {
			return c.Next()
		}

		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return router.ResponseUnauthorized(c, "Missing bearer token")
		}

		claims, err := ValidateToken(strings.TrimSpace(token))
		if err != nil {
			log.Print(c).WithError(err).Warn("Rejected bearer token")
			return router.ResponseUnauthorized(c, "Invalid bearer token")
		}

		c.Locals("client", claims.Subject)
		return c.Next()
	}
}
