package cache

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// Clear
// @Summary     Clear Contact Cache
// @Description Drop the cached contact names; the next read reloads them
// @Tags        Cache
// @Produce     json
// @Success     200
// @Security    BearerAuth
// @Router      /cache/clear [post]
func Clear(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cleared := svc.ClearContactCache(c.UserContext())
		return router.ResponseSuccessWithData(c, cleared.Message, cleared)
	}
}

// Status
// @Summary     Contact Cache Status
// @Tags        Cache
// @Produce     json
// @Success     200
// @Security    BearerAuth
// @Router      /cache/status [get]
func Status(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return router.ResponseSuccessWithData(c, "", svc.CacheStatus())
	}
}
