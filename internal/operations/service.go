package operations

import (
	"context"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/directory"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/enrich"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
)

// Gateway is the subset of the Evolution client the operations call.
type Gateway interface {
	Instance() string
	FindChats(ctx context.Context) ([]evolution.Chat, error)
	FindMessages(ctx context.Context, req evolution.FindMessagesRequest) (evolution.MessagePage, error)
	FindContacts(ctx context.Context, filter evolution.ContactFilter) ([]evolution.Contact, error)
	SendText(ctx context.Context, req evolution.SendTextRequest) (evolution.SendResult, error)
	SendMedia(ctx context.Context, req evolution.SendMediaRequest) (evolution.SendResult, error)
	ConnectionState(ctx context.Context) (evolution.ConnectionState, error)
	Connect(ctx context.Context) (evolution.ConnectCode, error)
	SetPresence(ctx context.Context, req evolution.PresenceRequest) error
	SendLocation(ctx context.Context, req evolution.SendLocationRequest) (evolution.SendResult, error)
	SendContact(ctx context.Context, req evolution.SendContactRequest) (evolution.SendResult, error)
	MarkMessagesRead(ctx context.Context, messages []evolution.ReadMessage) error
	ArchiveChat(ctx context.Context, req evolution.ArchiveChatRequest) error
	WhatsAppNumbers(ctx context.Context, numbers []string) ([]evolution.NumberCheck, error)
	FetchProfilePicture(ctx context.Context, number string) (evolution.ProfilePicture, error)
	FetchProfile(ctx context.Context, number string) (evolution.Profile, error)
	FetchBusinessProfile(ctx context.Context, number string) (evolution.BusinessProfile, error)
}

// Directory is the contact name cache.
type Directory interface {
	enrich.Names
	Invalidate()
	IncludesChats() bool
	Stats() directory.Stats
}

// Service runs every operation: validate, one gateway call, enrich reads.
// Each method returns either a complete result or the first error.
type Service struct {
	gw       Gateway
	dir      Directory
	enricher *enrich.Enricher
}

func New(gw Gateway, dir Directory) *Service {
	return &Service{
		gw:       gw,
		dir:      dir,
		enricher: enrich.New(dir),
	}
}

// Instance is the Evolution instance every operation targets.
func (s *Service) Instance() string {
	return s.gw.Instance()
}

// IncludesChats reports whether chat events can change a resolved name.
func (s *Service) IncludesChats() bool {
	return s.dir.IncludesChats()
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
