package index

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

const healthTimeout = 5 * time.Second

type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
	MCP     string `json:"mcp"`
}

type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Instance string `json:"instance"`
	State    string `json:"state,omitempty"`
}

// Index
// @Summary     Show The Status of The Server
// @Description Get The Server Name, Version and Entry Points
// @Tags        Root
// @Produce     json
// @Success     200
// @Router      / [get]
func Index(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return router.ResponseSuccessWithData(c, "WhatsApp MCP Gateway is running", Info{
			Name:    "whatsapp-mcp-gateway",
			Version: version,
			Docs:    router.BaseURL + "/docs/",
			Health:  router.BaseURL + "/health",
			MCP:     router.BaseURL + "/mcp",
		})
	}
}

// Health
// @Summary     Health Check
// @Description Reports healthy when the Evolution API answers the connection state request
// @Tags        Root
// @Produce     json
// @Success     200
// @Failure     503
// @Router      /health [get]
func Health(svc *operations.Service, version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		status, err := svc.ConnectionStatus(ctx)
		if err != nil {
			return router.ResponseServiceUnavailable(c, "unhealthy: "+err.Error())
		}

		return router.ResponseSuccessWithData(c, "healthy", HealthStatus{
			Status:   "healthy",
			Version:  version,
			Instance: status.Instance,
			State:    status.State,
		})
	}
}
