package contacts

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	typHTTP "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/types"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// ListContacts
// @Summary     List or Find Contacts
// @Description Without filters lists contacts; with contact_id or name looks them up
// @Tags        Contacts
// @Produce     json
// @Param       contact_id query string false "Phone number or JID"
// @Param       name       query string false "Part of the contact name"
// @Param       limit      query int    false "Maximum contacts (default 50, max 1000)"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /contacts [get]
func ListContacts(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var query typHTTP.QueryContacts
		if err := c.QueryParser(&query); err != nil {
			return router.ResponseBadRequest(c, "Failed parse query parameters")
		}

		var (
			contacts operations.ContactList
			err      error
		)
		if strings.TrimSpace(query.ContactID) == "" && strings.TrimSpace(query.Name) == "" {
			contacts, err = svc.ListContacts(c.UserContext(), operations.ListContactsInput{Limit: query.Limit})
		} else {
			contacts, err = svc.FindContacts(c.UserContext(), operations.FindContactsInput{
				ContactID: query.ContactID,
				Name:      query.Name,
				Limit:     query.Limit,
			})
		}
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", contacts)
	}
}
