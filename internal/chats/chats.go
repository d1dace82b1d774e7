package chats

import (
	"github.com/gofiber/fiber/v2"

	typHTTP "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/types"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// ListChats
// @Summary     List Chats
// @Description Most recently active chats first, with contact names resolved
// @Tags        Chats
// @Produce     json
// @Param       limit query int false "Maximum chats (default 50, max 1000)"
// @Success     200
// @Security    BearerAuth
// @Router      /chats [get]
func ListChats(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var query typHTTP.QueryLimit
		if err := c.QueryParser(&query); err != nil {
			return router.ResponseBadRequest(c, "Failed parse query parameters")
		}

		chats, err := svc.ListChats(c.UserContext(), operations.ListChatsInput{Limit: query.Limit})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", chats)
	}
}

// GetChatByNumber
// @Summary     Resolve Chat ID
// @Description Normalize a phone number into its personal chat JID
// @Tags        Chats
// @Produce     json
// @Param       number path string true "Phone number"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /chats/number/{number} [get]
func GetChatByNumber(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := svc.GetChatByNumber(c.UserContext(), operations.GetChatByNumberInput{Number: c.Params("number")})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", ref)
	}
}

// ListUnread
// @Summary     List Unread Chats
// @Description Chats with unread messages and the total unread count
// @Tags        Chats
// @Produce     json
// @Param       limit query int false "Maximum chats (default 50, max 1000)"
// @Success     200
// @Security    BearerAuth
// @Router      /chats/unread [get]
func ListUnread(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var query typHTTP.QueryLimit
		if err := c.QueryParser(&query); err != nil {
			return router.ResponseBadRequest(c, "Failed parse query parameters")
		}

		unread, err := svc.GetUnreadMessages(c.UserContext(), operations.ListChatsInput{Limit: query.Limit})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", unread)
	}
}

// Archive
// @Summary     Archive Chat
// @Description Archive a chat, or unarchive it with "archive": false
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestArchiveChat true "Chat"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /chats/archive [post]
func Archive(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqArchive typHTTP.RequestArchiveChat
		if err := c.BodyParser(&reqArchive); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		res, err := svc.ArchiveChat(c.UserContext(), operations.ArchiveChatInput{
			ChatID:  reqArchive.ChatID,
			Number:  reqArchive.Number,
			Archive: reqArchive.Archive,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", res)
	}
}
