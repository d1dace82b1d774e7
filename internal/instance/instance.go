package instance

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// Status
// @Summary     Connection Status
// @Tags        Instance
// @Produce     json
// @Success     200
// @Security    BearerAuth
// @Router      /instance/status [get]
func Status(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, err := svc.ConnectionStatus(c.UserContext())
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", status)
	}
}

// Info
// @Summary     Instance Info
// @Description Connection state together with the contact cache state
// @Tags        Instance
// @Produce     json
// @Success     200
// @Security    BearerAuth
// @Router      /instance/info [get]
func Info(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := svc.InstanceInfo(c.UserContext())
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", info)
	}
}

// QRCode
// @Summary     Pairing QR Code
// @Description Request a pairing code from the Evolution API and render it as a PNG data URI
// @Tags        Instance
// @Produce     json
// @Success     200
// @Security    BearerAuth
// @Router      /instance/qr [get]
func QRCode(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		qr, err := svc.QRCode(c.UserContext())
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", qr)
	}
}
