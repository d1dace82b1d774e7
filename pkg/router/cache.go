package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
)

// HttpCacheStatic caches GET responses of static routes (API docs). Operation
// routes are never cached; contact names have their own directory cache.
func HttpCacheStatic(ttl int) fiber.Handler {
	if ttl <= 0 {
		ttl = 300
	}
	return cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Method() != fiber.MethodGet
		},
		Expiration: time.Duration(ttl) * time.Second,
	})
}
