package tools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

const ServerName = "whatsapp-mcp-gateway"

// Tool names.
const (
	SendTextMessage       = "send_text_message"
	SendMedia             = "send_media"
	SendImage             = "send_image"
	SendVideo             = "send_video"
	SendDocument          = "send_document"
	SendAudio             = "send_audio"
	SendLocation          = "send_location"
	SendContact           = "send_contact"
	ListChats             = "list_chats"
	GetChatMessages       = "get_chat_messages"
	ListContacts          = "list_contacts"
	FindContacts          = "find_contacts"
	GetChatByNumber       = "get_chat_by_number"
	GetUnreadMessages     = "get_unread_messages"
	MarkChatAsRead        = "mark_chat_as_read"
	ArchiveChat           = "archive_chat"
	CheckNumber           = "check_number"
	GetProfilePicture     = "get_profile_picture"
	GetProfile            = "get_profile"
	GetBusinessProfile    = "get_business_profile"
	GetConnectionStatus   = "get_connection_status"
	GetInstanceInfo       = "get_instance_info"
	GetQRCode             = "get_qr_code"
	SetPresence           = "set_presence"
	ClearContactCache     = "clear_contact_cache"
	GetContactCacheStatus = "get_contact_cache_status"
)

// NewServer returns an MCP server exposing every operation of svc.
func NewServer(svc *operations.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	Register(server, svc)
	return server
}

// HTTPHandler serves server over the streamable HTTP transport. Sessions are
// stateless and every response is a single JSON body, so the handler also
// works behind the buffered fiber adaptor.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless:    true,
		JSONResponse: true,
	})
}

func Register(server *mcp.Server, svc *operations.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        SendTextMessage,
		Description: "Send a WhatsApp text message to a phone number.",
	}, handle(SendTextMessage, svc.SendText))

	mcp.AddTool(server, &mcp.Tool{
		Name:        SendMedia,
		Description: "Send an image, video, document or audio file, referenced by URL, to a phone number.",
	}, handle(SendMedia, svc.SendMedia))

	for name, kind := range map[string]string{
		SendImage:    "image",
		SendVideo:    "video",
		SendDocument: "document",
		SendAudio:    "audio",
	} {
		mcp.AddTool(server, &mcp.Tool{
			Name:        name,
			Description: "Send a " + kind + " file, referenced by URL, to a phone number.",
		}, handle(name, func(ctx context.Context, in operations.MediaInput) (operations.SendReceipt, error) {
			return svc.SendMediaAs(ctx, kind, in)
		}))
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        SendLocation,
		Description: "Send a location pin (latitude/longitude, optional place name and address) to a phone number.",
	}, handle(SendLocation, svc.SendLocation))

	mcp.AddTool(server, &mcp.Tool{
		Name:        SendContact,
		Description: "Share a contact card (name, phone, optional organization) with a phone number.",
	}, handle(SendContact, svc.SendContact))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ListChats,
		Description: "List recent chats with contact display names.",
	}, handle(ListChats, svc.ListChats))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetChatMessages,
		Description: "Get messages of one chat, addressed by chat_id or phone number, optionally filtered by a search query.",
	}, handle(GetChatMessages, svc.GetChatMessages))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ListContacts,
		Description: "List known contacts.",
	}, handle(ListContacts, svc.ListContacts))

	mcp.AddTool(server, &mcp.Tool{
		Name:        FindContacts,
		Description: "Find contacts by phone number / JID or by part of their name.",
	}, handle(FindContacts, svc.FindContacts))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetChatByNumber,
		Description: "Resolve a phone number into its normalized form and chat JID.",
	}, handle(GetChatByNumber, svc.GetChatByNumber))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetUnreadMessages,
		Description: "List chats with unread messages and the total unread count.",
	}, handle(GetUnreadMessages, svc.GetUnreadMessages))

	mcp.AddTool(server, &mcp.Tool{
		Name:        MarkChatAsRead,
		Description: "Mark messages of a chat as read; without message_ids the latest received messages are marked.",
	}, handle(MarkChatAsRead, svc.MarkChatAsRead))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ArchiveChat,
		Description: "Archive a chat, or unarchive it with archive=false.",
	}, handle(ArchiveChat, svc.ArchiveChat))

	mcp.AddTool(server, &mcp.Tool{
		Name:        CheckNumber,
		Description: "Check whether phone numbers have a WhatsApp account.",
	}, handle(CheckNumber, svc.CheckNumbers))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetProfilePicture,
		Description: "Get the profile picture URL of a phone number.",
	}, handle(GetProfilePicture, svc.GetProfilePicture))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetProfile,
		Description: "Get the public profile (name, about text, picture) of a phone number.",
	}, handle(GetProfile, svc.GetProfile))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetBusinessProfile,
		Description: "Get the business profile (category, email, website, address) of a phone number.",
	}, handle(GetBusinessProfile, svc.GetBusinessProfile))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetConnectionStatus,
		Description: "Get the WhatsApp connection state of the instance.",
	}, handle(GetConnectionStatus, func(ctx context.Context, _ operations.NoInput) (operations.ConnectionStatus, error) {
		return svc.ConnectionStatus(ctx)
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetInstanceInfo,
		Description: "Get the instance name, connection state and contact cache state.",
	}, handle(GetInstanceInfo, func(ctx context.Context, _ operations.NoInput) (operations.InstanceInfo, error) {
		return svc.InstanceInfo(ctx)
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetQRCode,
		Description: "Get a QR code (PNG data URI) and pairing code to link the instance to a phone.",
	}, handle(GetQRCode, func(ctx context.Context, _ operations.NoInput) (operations.QRCode, error) {
		return svc.QRCode(ctx)
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        SetPresence,
		Description: "Set the presence of the instance (available, unavailable, composing, recording).",
	}, handle(SetPresence, svc.SetPresence))

	mcp.AddTool(server, &mcp.Tool{
		Name:        ClearContactCache,
		Description: "Drop the cached contact names; the next listing reloads them.",
	}, handle(ClearContactCache, func(ctx context.Context, _ operations.NoInput) (operations.CacheCleared, error) {
		return svc.ClearContactCache(ctx), nil
	}))

	mcp.AddTool(server, &mcp.Tool{
		Name:        GetContactCacheStatus,
		Description: "Report whether contact names are cached, how many and how old.",
	}, handle(GetContactCacheStatus, func(context.Context, operations.NoInput) (operations.CacheStatus, error) {
		return svc.CacheStatus(), nil
	}))
}

// handle adapts an operation to a typed tool handler. Operation errors become
// error results carrying the (already redacted) error text.
func handle[In, Out any](name string, fn func(context.Context, In) (Out, error)) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			log.Op(name).WithError(err).Warn("tool call failed")
			var zero Out
			return nil, zero, err
		}
		return nil, out, nil
	}
}
