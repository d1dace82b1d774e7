package messaging

import (
	"github.com/gofiber/fiber/v2"

	typHTTP "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/types"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// GetMessages
// @Summary     Get Chat Messages
// @Description Messages of the personal chat with number, or of chat_id when given
// @Tags        Messages
// @Produce     json
// @Param       number  path  string true  "Phone number"
// @Param       chat_id query string false "Chat JID, overrides number"
// @Param       query   query string false "Text to search for"
// @Param       limit   query int    false "Maximum messages (default 50, max 1000)"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /messages/{number} [get]
func GetMessages(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var query typHTTP.QueryMessages
		if err := c.QueryParser(&query); err != nil {
			return router.ResponseBadRequest(c, "Failed parse query parameters")
		}

		messages, err := svc.GetChatMessages(c.UserContext(), operations.GetChatMessagesInput{
			ChatID: query.ChatID,
			Number: c.Params("number"),
			Query:  query.Query,
			Limit:  query.Limit,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", messages)
	}
}

// SendText
// @Summary     Send Text Message
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestSendText true "Text message"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /messages/text [post]
func SendText(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqSendText typHTTP.RequestSendText
		if err := c.BodyParser(&reqSendText); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		receipt, err := svc.SendText(c.UserContext(), operations.SendTextInput{
			Number:      reqSendText.Number,
			Text:        reqSendText.Text,
			LinkPreview: reqSendText.LinkPreviewOrDefault(),
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "Success send text message", receipt)
	}
}

// SendMedia
// @Summary     Send Media Message
// @Description Send an image, video, document or audio file by URL
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestSendMedia true "Media message"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /messages/media [post]
func SendMedia(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqSendMedia typHTTP.RequestSendMedia
		if err := c.BodyParser(&reqSendMedia); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		receipt, err := svc.SendMedia(c.UserContext(), operations.SendMediaInput{
			Number:    reqSendMedia.Number,
			MediaURL:  reqSendMedia.MediaURL,
			MediaType: reqSendMedia.MediaType,
			Caption:   reqSendMedia.Caption,
			FileName:  reqSendMedia.FileName,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "Success send media message", receipt)
	}
}

// SendLocation
// @Summary     Send Location
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestSendLocation true "Location message"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /messages/location [post]
func SendLocation(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqSendLocation typHTTP.RequestSendLocation
		if err := c.BodyParser(&reqSendLocation); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		receipt, err := svc.SendLocation(c.UserContext(), operations.SendLocationInput{
			Number:    reqSendLocation.Number,
			Latitude:  reqSendLocation.Latitude,
			Longitude: reqSendLocation.Longitude,
			Name:      reqSendLocation.Name,
			Address:   reqSendLocation.Address,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "Success send location message", receipt)
	}
}

// SendContact
// @Summary     Send Contact Card
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestSendContact true "Contact card"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /messages/contact [post]
func SendContact(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqSendContact typHTTP.RequestSendContact
		if err := c.BodyParser(&reqSendContact); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		receipt, err := svc.SendContact(c.UserContext(), operations.SendContactInput{
			Number:              reqSendContact.Number,
			ContactName:         reqSendContact.ContactName,
			ContactPhone:        reqSendContact.ContactPhone,
			ContactOrganization: reqSendContact.ContactOrganization,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "Success send contact message", receipt)
	}
}

// MarkRead
// @Summary     Mark Messages As Read
// @Description Without message_ids the latest received messages of the chat are marked
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestMarkRead true "Chat and messages"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /messages/mark-read [post]
func MarkRead(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqMarkRead typHTTP.RequestMarkRead
		if err := c.BodyParser(&reqMarkRead); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		read, err := svc.MarkChatAsRead(c.UserContext(), operations.MarkChatAsReadInput{
			ChatID:     reqMarkRead.ChatID,
			Number:     reqMarkRead.Number,
			MessageIDs: reqMarkRead.MessageIDs,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", read)
	}
}
