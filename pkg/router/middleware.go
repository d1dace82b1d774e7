package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// HttpRequestID tags every request with X-Request-ID, reusing the caller's
// value when present. The id is stored in Locals("requestid").
func HttpRequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: "requestid",
	})
}

// HttpRealIP stores the client address seen by the first proxy in
// Locals("remote_ip").
func HttpRealIP() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				c.Locals("remote_ip", ip)
			}
		} else if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
			c.Locals("remote_ip", realIP)
		}
		return c.Next()
	}
}
