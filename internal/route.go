package internal

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	swagger "github.com/gofiber/swagger"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/webhook"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/auth"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"

	ctlCache "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/cache"
	ctlChats "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/chats"
	ctlContacts "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/contacts"
	ctlIndex "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/index"
	ctlInstance "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/instance"
	ctlMessaging "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/messaging"
	ctlPresence "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/presence"
	ctlProfile "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/profile"
	ctlWebhooks "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/webhooks"
)

// DocsPath is the swagger document served under /docs.
var DocsPath = "docs/swagger.json"

func Routes(app *fiber.App, svc *operations.Service, mcpHandler http.Handler, recv *webhook.Receiver, version string) {
	// Configure OpenAPI / Swagger
	specURL := router.BaseURL + "/docs/swagger.json"
	swaggerHandler := swagger.New(swagger.Config{
		URL: specURL,
	})

	// Route for Index
	// ---------------------------------------------
	if router.BaseURL == "" {
		app.Get("/", ctlIndex.Index(version))
	} else {
		app.Get(router.BaseURL, ctlIndex.Index(version))
		app.Get(router.BaseURL+"/", ctlIndex.Index(version))
	}
	app.Get(router.BaseURL+"/health", ctlIndex.Health(svc, version))

	// Route for OpenAPI / Swagger
	// ---------------------------------------------
	docsCache := router.HttpCacheStatic(router.DocsCacheTTLSeconds)
	app.Get(router.BaseURL+"/docs/swagger.json", docsCache, func(c *fiber.Ctx) error {
		return c.SendFile(DocsPath)
	})
	app.Get(router.BaseURL+"/docs/swagger.yaml", docsCache, serveSwaggerYAML)
	app.Get(router.BaseURL+"/docs/*", docsCache, swaggerHandler)

	// Route for Evolution Webhook (WEBHOOK_TOKEN, not bearer)
	// ---------------------------------------------
	app.Post(router.BaseURL+"/webhook/evolution", ctlWebhooks.Receive(recv))
	app.Post(router.BaseURL+"/webhook/evolution/:event", ctlWebhooks.Receive(recv))

	// Everything below requires a bearer token when HTTP_JWT_SECRET is set
	bearer := auth.BearerAuth()

	// Route for MCP (streamable HTTP)
	// ---------------------------------------------
	app.All(router.BaseURL+"/mcp", bearer, adaptor.HTTPHandler(mcpHandler))

	// Route for Chats and Contacts
	// ---------------------------------------------
	app.Get(router.BaseURL+"/chats", bearer, ctlChats.ListChats(svc))
	app.Get(router.BaseURL+"/chats/unread", bearer, ctlChats.ListUnread(svc))
	app.Get(router.BaseURL+"/chats/number/:number", bearer, ctlChats.GetChatByNumber(svc))
	app.Post(router.BaseURL+"/chats/archive", bearer, ctlChats.Archive(svc))
	app.Get(router.BaseURL+"/contacts", bearer, ctlContacts.ListContacts(svc))

	// Route for Messages
	// ---------------------------------------------
	app.Post(router.BaseURL+"/messages/text", bearer, ctlMessaging.SendText(svc))
	app.Post(router.BaseURL+"/messages/media", bearer, ctlMessaging.SendMedia(svc))
	app.Post(router.BaseURL+"/messages/location", bearer, ctlMessaging.SendLocation(svc))
	app.Post(router.BaseURL+"/messages/contact", bearer, ctlMessaging.SendContact(svc))
	app.Post(router.BaseURL+"/messages/mark-read", bearer, ctlMessaging.MarkRead(svc))
	app.Get(router.BaseURL+"/messages/:number", bearer, ctlMessaging.GetMessages(svc))

	// Route for Profiles
	// ---------------------------------------------
	app.Get(router.BaseURL+"/profile/picture/:number", bearer, ctlProfile.Picture(svc))
	app.Get(router.BaseURL+"/profile/status/:number", bearer, ctlProfile.Status(svc))
	app.Get(router.BaseURL+"/profile/business/:number", bearer, ctlProfile.Business(svc))
	app.Post(router.BaseURL+"/check-number", bearer, ctlProfile.CheckNumber(svc))

	// Route for Instance and Presence
	// ---------------------------------------------
	app.Get(router.BaseURL+"/instance/status", bearer, ctlInstance.Status(svc))
	app.Get(router.BaseURL+"/instance/info", bearer, ctlInstance.Info(svc))
	app.Get(router.BaseURL+"/instance/qr", bearer, ctlInstance.QRCode(svc))
	app.Post(router.BaseURL+"/presence", bearer, ctlPresence.SetPresence(svc))

	// Route for Contact Cache
	// ---------------------------------------------
	app.Post(router.BaseURL+"/cache/clear", bearer, ctlCache.Clear(svc))
	app.Get(router.BaseURL+"/cache/status", bearer, ctlCache.Status(svc))
	app.Get(router.BaseURL+"/webhook/stats", bearer, ctlWebhooks.Stats(recv))
}
