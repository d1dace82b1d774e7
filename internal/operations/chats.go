package operations

import (
	"context"
	"sort"
	"strings"

	"github.com/forPelevin/gomoji"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/validation"
)

// ListChats returns the most recently updated chats with display names.
func (s *Service) ListChats(ctx context.Context, in ListChatsInput) (ChatList, error) {
	limit, err := validation.ValidateLimit(in.Limit)
	if err != nil {
		return ChatList{}, err
	}

	chats, err := s.gw.FindChats(ctx)
	if err != nil {
		return ChatList{}, err
	}
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].UpdatedAt > chats[j].UpdatedAt
	})

	summaries := s.enricher.Chats(ctx, truncate(chats, limit))
	return ChatList{Chats: summaries, Count: len(summaries), Total: len(chats)}, nil
}

// GetUnreadMessages lists the chats with unread messages, most recent first.
func (s *Service) GetUnreadMessages(ctx context.Context, in ListChatsInput) (UnreadChats, error) {
	limit, err := validation.ValidateLimit(in.Limit)
	if err != nil {
		return UnreadChats{}, err
	}

	chats, err := s.gw.FindChats(ctx)
	if err != nil {
		return UnreadChats{}, err
	}

	unread := make([]evolution.Chat, 0, len(chats))
	total := 0
	for _, c := range chats {
		if c.UnreadCount > 0 {
			unread = append(unread, c)
			total += c.UnreadCount
		}
	}
	sort.SliceStable(unread, func(i, j int) bool {
		return unread[i].UpdatedAt > unread[j].UpdatedAt
	})

	summaries := s.enricher.Chats(ctx, truncate(unread, limit))
	return UnreadChats{Chats: summaries, Count: len(summaries), UnreadMessages: total}, nil
}

// MarkChatAsRead sends read receipts. Without message ids it first fetches
// the latest messages of the chat and marks the received ones.
func (s *Service) MarkChatAsRead(ctx context.Context, in MarkChatAsReadInput) (ReadReceipt, error) {
	chatID, err := chatTarget(in.ChatID, in.Number)
	if err != nil {
		return ReadReceipt{}, err
	}

	var ids []string
	for _, id := range in.MessageIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(in.MessageIDs) > 0 && len(ids) == 0 {
		return ReadReceipt{}, &validation.FieldError{Field: "message_ids", Rule: "required", Message: "message ids cannot be blank"}
	}

	if len(ids) == 0 {
		page, err := s.gw.FindMessages(ctx, evolution.FindMessagesRequest{ChatID: chatID, Limit: validation.DefaultLimit})
		if err != nil {
			return ReadReceipt{}, err
		}
		for _, m := range page.Records {
			if !m.Key.FromMe && m.Key.ID != "" {
				ids = append(ids, m.Key.ID)
			}
		}
	}
	if len(ids) == 0 {
		return ReadReceipt{ChatID: chatID, MessageIDs: []string{}}, nil
	}

	messages := make([]evolution.ReadMessage, 0, len(ids))
	for _, id := range ids {
		messages = append(messages, evolution.ReadMessage{RemoteJID: chatID, ID: id})
	}
	if err := s.gw.MarkMessagesRead(ctx, messages); err != nil {
		return ReadReceipt{}, err
	}

	log.Op("mark_chat_as_read").WithField("chat_id", chatID).WithField("marked", len(ids)).Info("chat marked as read")
	return ReadReceipt{ChatID: chatID, MessageIDs: ids, Marked: len(ids)}, nil
}

// ArchiveChat archives a chat, or unarchives it when Archive is false.
func (s *Service) ArchiveChat(ctx context.Context, in ArchiveChatInput) (ArchiveResult, error) {
	chatID, err := chatTarget(in.ChatID, in.Number)
	if err != nil {
		return ArchiveResult{}, err
	}
	archive := in.Archive == nil || *in.Archive

	if err := s.gw.ArchiveChat(ctx, evolution.ArchiveChatRequest{Chat: chatID, Archive: archive}); err != nil {
		return ArchiveResult{}, err
	}

	log.Op("archive_chat").WithField("chat_id", chatID).WithField("archive", archive).Info("chat archive state changed")
	return ArchiveResult{ChatID: chatID, Archived: archive}, nil
}

// GetChatByNumber builds the chat address of a number without calling out.
func (s *Service) GetChatByNumber(_ context.Context, in GetChatByNumberInput) (ChatRef, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return ChatRef{}, err
	}
	return ChatRef{Number: number, ChatID: evolution.UserJID(number)}, nil
}

// ListContacts returns known contacts.
func (s *Service) ListContacts(ctx context.Context, in ListContactsInput) (ContactList, error) {
	limit, err := validation.ValidateLimit(in.Limit)
	if err != nil {
		return ContactList{}, err
	}

	contacts, err := s.gw.FindContacts(ctx, evolution.ContactFilter{})
	if err != nil {
		return ContactList{}, err
	}
	return contactList(contacts, limit), nil
}

// FindContacts narrows contacts by address on the remote side and by name
// locally. At least one of the two is required.
func (s *Service) FindContacts(ctx context.Context, in FindContactsInput) (ContactList, error) {
	limit, err := validation.ValidateLimit(in.Limit)
	if err != nil {
		return ContactList{}, err
	}

	var filter evolution.ContactFilter
	if strings.TrimSpace(in.ContactID) != "" {
		jid, err := validation.ValidateChatID(in.ContactID)
		if err != nil {
			return ContactList{}, err
		}
		filter.ID = jid
	}
	needle := foldName(in.Name)
	if filter.ID == "" && needle == "" {
		return ContactList{}, &validation.FieldError{Field: "contact_id", Rule: "required", Message: "contact_id or name is required"}
	}

	contacts, err := s.gw.FindContacts(ctx, filter)
	if err != nil {
		return ContactList{}, err
	}

	if needle != "" {
		var matched []evolution.Contact
		for _, c := range contacts {
			if c.PushName != nil && strings.Contains(foldName(*c.PushName), needle) {
				matched = append(matched, c)
			}
		}
		contacts = matched
	}
	return contactList(contacts, limit), nil
}

// foldName drops emoji and case so "Ana 🌸" matches "ana".
func foldName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(gomoji.RemoveEmojis(name)), " "))
}

func contactList(contacts []evolution.Contact, limit int) ContactList {
	page := truncate(contacts, limit)
	out := make([]ContactSummary, 0, len(page))
	for _, c := range page {
		jid := c.RemoteJID
		if jid == "" {
			jid = c.ID
		}
		summary := ContactSummary{
			ID:            c.ID,
			ChatID:        jid,
			Number:        evolution.UserPart(jid),
			IsGroup:       c.IsGroup(),
			ProfilePicURL: c.ProfilePicURL,
		}
		if c.PushName != nil && strings.TrimSpace(*c.PushName) != "" {
			name := strings.TrimSpace(*c.PushName)
			summary.Name = &name
		}
		out = append(out, summary)
	}
	return ContactList{Contacts: out, Count: len(out), Total: len(contacts)}
}
