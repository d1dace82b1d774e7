package presence

import (
	"github.com/gofiber/fiber/v2"

	typHTTP "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/types"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// SetPresence
// @Summary     Set Presence
// @Description Show available, unavailable, composing or recording, optionally inside one chat
// @Tags        Presence
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestPresence true "Presence"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /presence [post]
func SetPresence(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqPresence typHTTP.RequestPresence
		if err := c.BodyParser(&reqPresence); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		result, err := svc.SetPresence(c.UserContext(), operations.SetPresenceInput{
			Presence: reqPresence.Presence,
			Number:   reqPresence.Number,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "Success send presence", result)
	}
}
