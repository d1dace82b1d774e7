package webhooks

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/webhook"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

const HeaderWebhookToken = "X-Webhook-Token"

// Receive
// @Summary     Evolution Webhook
// @Description Receives Evolution API events; contact and chat events drop the contact cache
// @Tags        Webhook
// @Accept      json
// @Produce     json
// @Param       event path string false "Event name when Evolution posts by event"
// @Success     200
// @Failure     400
// @Failure     401
// @Router      /webhook/evolution [post]
func Receive(recv *webhook.Receiver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(HeaderWebhookToken)
		if token == "" {
			token = c.Query("token")
		}
		if !recv.Authorized(token) {
			return router.ResponseUnauthorized(c, "Invalid webhook token")
		}

		var event webhook.Event
		if err := json.Unmarshal(c.Body(), &event); err != nil {
			log.Print(c).WithError(err).Warn("Malformed webhook body")
			return router.ResponseBadRequest(c, "Failed parse body request")
		}
		if event.Event == "" {
			event.Event = webhook.EventType(c.Params("event"))
		}

		result, err := recv.Handle(c.UserContext(), event)
		if err != nil {
			if errors.Is(err, webhook.ErrForeignInstance) {
				log.Print(c).WithField("instance", event.Instance).Warn(err.Error())
			}
			return router.ResponseBadRequest(c, err.Error())
		}
		return router.ResponseSuccessWithData(c, "", result)
	}
}

// Stats
// @Summary     Webhook Counters
// @Tags        Webhook
// @Produce     json
// @Success     200
// @Security    BearerAuth
// @Router      /webhook/stats [get]
func Stats(recv *webhook.Receiver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return router.ResponseSuccessWithData(c, "", recv.Stats())
	}
}
