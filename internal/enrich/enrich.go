package enrich

import (
	"context"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

// PreviewLength is the maximum number of characters (grapheme clusters) kept
// in a chat's last message preview.
const PreviewLength = 120

// Names is the directory surface used during enrichment.
type Names interface {
	EnsureLoaded(ctx context.Context) error
	Lookup(id string) (string, bool)
}

type ChatSummary struct {
	ID          string          `json:"id"`
	ChatID      string          `json:"chat_id"`
	Number      string          `json:"number,omitempty"`
	DisplayName *string         `json:"display_name"`
	IsGroup     bool            `json:"is_group"`
	UnreadCount int             `json:"unread_count"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
	LastMessage *MessageSummary `json:"last_message,omitempty"`
}

type MessageSummary struct {
	ID          string  `json:"id"`
	ChatID      string  `json:"chat_id"`
	FromMe      bool    `json:"from_me"`
	Sender      string  `json:"sender,omitempty"`
	SenderName  *string `json:"sender_name"`
	MessageType string  `json:"message_type,omitempty"`
	Timestamp   int64   `json:"timestamp,omitempty"`
	Text        string  `json:"text,omitempty"`
}

// Enricher attaches display names to raw chats and messages.
type Enricher struct {
	names Names
}

func New(names Names) *Enricher {
	return &Enricher{names: names}
}

// Chats loads the directory at most once for the whole batch.
func (e *Enricher) Chats(ctx context.Context, chats []evolution.Chat) []ChatSummary {
	e.ensure(ctx, "enrich.chats", len(chats))

	out := make([]ChatSummary, 0, len(chats))
	for _, c := range chats {
		jid := c.RemoteJID
		if jid == "" {
			jid = c.ID
		}
		group := evolution.IsGroupJID(jid)

		s := ChatSummary{
			ID:          c.ID,
			ChatID:      jid,
			IsGroup:     group,
			UnreadCount: c.UnreadCount,
			UpdatedAt:   c.UpdatedAt,
		}
		if !group {
			s.Number = evolution.UserPart(jid)
		}

		switch {
		case nonEmpty(c.PushName):
			s.DisplayName = trimmed(*c.PushName)
		case group && c.Name != "":
			s.DisplayName = trimmed(c.Name)
		case !group:
			s.DisplayName = e.lookup(jid)
		}

		if c.LastMessage != nil {
			last := e.message(*c.LastMessage)
			last.Text = Preview(last.Text, PreviewLength)
			s.LastMessage = &last
		}
		out = append(out, s)
	}
	return out
}

// Messages loads the directory at most once for the whole batch.
func (e *Enricher) Messages(ctx context.Context, messages []evolution.Message) []MessageSummary {
	e.ensure(ctx, "enrich.messages", len(messages))

	out := make([]MessageSummary, 0, len(messages))
	for _, m := range messages {
		out = append(out, e.message(m))
	}
	return out
}

// Name resolves one personal chat address. Groups and unknown addresses
// return nil.
func (e *Enricher) Name(ctx context.Context, jid string) *string {
	if jid == "" || evolution.IsGroupJID(jid) {
		return nil
	}
	e.ensure(ctx, "enrich.name", 1)
	return e.lookup(jid)
}

func (e *Enricher) ensure(ctx context.Context, op string, n int) {
	if n == 0 || e.names == nil {
		return
	}
	if err := e.names.EnsureLoaded(ctx); err != nil {
		log.Op(op).WithError(err).Warn("contact directory unavailable, names may be missing")
	}
}

func (e *Enricher) message(m evolution.Message) MessageSummary {
	sender := m.SenderJID()
	s := MessageSummary{
		ID:          m.Key.ID,
		ChatID:      m.Key.RemoteJID,
		FromMe:      m.Key.FromMe,
		Sender:      sender,
		MessageType: m.MessageType,
		Timestamp:   m.Timestamp,
		Text:        m.Text(),
	}
	if s.ID == "" {
		s.ID = m.ID
	}

	switch {
	case nonEmpty(m.PushName):
		s.SenderName = trimmed(*m.PushName)
	case sender != "" && !evolution.IsGroupJID(sender):
		s.SenderName = e.lookup(sender)
	}
	return s
}

func (e *Enricher) lookup(jid string) *string {
	if e.names == nil {
		return nil
	}
	name, ok := e.names.Lookup(jid)
	if !ok {
		return nil
	}
	return &name
}

// Preview cuts s to at most n user-perceived characters.
func Preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || uniseg.GraphemeClusterCount(s) <= n {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	return b.String() + "…"
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func trimmed(s string) *string {
	s = strings.TrimSpace(s)
	return &s
}
