package router

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

// RecoveryMiddleware converts panics into structured JSON responses and logs them.
// It must be registered before application routes.
func RecoveryMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				message := fmt.Sprintf("%v", rec)
				log.Print(c).WithField("panic", message).Error("panic recovered")
				err = c.Status(fiber.StatusInternalServerError).JSON(Response{
					Status:  false,
					Code:    fiber.StatusInternalServerError,
					Message: "internal server error",
					Error:   "internal server error",
				})
			}
		}()
		return c.Next()
	}
}
