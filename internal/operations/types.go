package operations

import (
	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/enrich"
)

type (
	ChatSummary    = enrich.ChatSummary
	MessageSummary = enrich.MessageSummary
)

// Inputs. The json names double as tool argument names and the jsonschema
// tags as their descriptions.

type SendTextInput struct {
	Number      string `json:"number" jsonschema:"recipient phone number in international format, any punctuation is ignored"`
	Text        string `json:"text" jsonschema:"message body, at most 65536 characters"`
	LinkPreview bool   `json:"link_preview,omitempty" jsonschema:"render a preview for the first link in the text"`
}

type SendMediaInput struct {
	Number    string `json:"number" jsonschema:"recipient phone number in international format"`
	MediaURL  string `json:"media_url" jsonschema:"public http(s) URL of the file to send"`
	MediaType string `json:"media_type" jsonschema:"one of image, video, document, audio"`
	Caption   string `json:"caption,omitempty" jsonschema:"optional caption, at most 1024 characters"`
	FileName  string `json:"filename,omitempty" jsonschema:"optional file name shown to the recipient"`
}

// MediaInput is SendMediaInput without the media type, for the per-type tools.
type MediaInput struct {
	Number   string `json:"number" jsonschema:"recipient phone number in international format"`
	MediaURL string `json:"media_url" jsonschema:"public http(s) URL of the file to send"`
	Caption  string `json:"caption,omitempty" jsonschema:"optional caption, at most 1024 characters"`
	FileName string `json:"filename,omitempty" jsonschema:"optional file name shown to the recipient"`
}

type ListChatsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of chats to return (default 50, max 1000)"`
}

type GetChatMessagesInput struct {
	ChatID string `json:"chat_id,omitempty" jsonschema:"chat JID, e.g. 5511999999999@s.whatsapp.net or a group JID"`
	Number string `json:"number,omitempty" jsonschema:"phone number of a personal chat, used when chat_id is empty"`
	Query  string `json:"query,omitempty" jsonschema:"optional text to search for"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of messages to return (default 50, max 1000)"`
}

type ListContactsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of contacts to return (default 50, max 1000)"`
}

type FindContactsInput struct {
	ContactID string `json:"contact_id,omitempty" jsonschema:"phone number or JID of the contact"`
	Name      string `json:"name,omitempty" jsonschema:"case-insensitive part of the contact name"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of contacts to return (default 50, max 1000)"`
}

type GetChatByNumberInput struct {
	Number string `json:"number" jsonschema:"phone number in international format"`
}

type SetPresenceInput struct {
	Presence string `json:"presence" jsonschema:"one of available, unavailable, composing, recording"`
	Number   string `json:"number,omitempty" jsonschema:"optional chat to show the presence in"`
}

type SendLocationInput struct {
	Number    string  `json:"number" jsonschema:"recipient phone number in international format"`
	Latitude  float64 `json:"latitude" jsonschema:"latitude in decimal degrees, e.g. -23.550520"`
	Longitude float64 `json:"longitude" jsonschema:"longitude in decimal degrees, e.g. -46.633308"`
	Name      string  `json:"name,omitempty" jsonschema:"optional place name"`
	Address   string  `json:"address,omitempty" jsonschema:"optional street address"`
}

type SendContactInput struct {
	Number              string `json:"number" jsonschema:"recipient phone number in international format"`
	ContactName         string `json:"contact_name" jsonschema:"full name of the shared contact"`
	ContactPhone        string `json:"contact_phone" jsonschema:"phone number of the shared contact"`
	ContactOrganization string `json:"contact_organization,omitempty" jsonschema:"optional company of the shared contact"`
}

type MarkChatAsReadInput struct {
	ChatID     string   `json:"chat_id,omitempty" jsonschema:"chat JID to mark as read"`
	Number     string   `json:"number,omitempty" jsonschema:"phone number of a personal chat, used when chat_id is empty"`
	MessageIDs []string `json:"message_ids,omitempty" jsonschema:"ids of the messages to mark; empty marks the latest received messages"`
}

type ArchiveChatInput struct {
	ChatID  string `json:"chat_id,omitempty" jsonschema:"chat JID to archive"`
	Number  string `json:"number,omitempty" jsonschema:"phone number of a personal chat, used when chat_id is empty"`
	Archive *bool  `json:"archive,omitempty" jsonschema:"false unarchives the chat (default true)"`
}

type CheckNumberInput struct {
	Number  string   `json:"number,omitempty" jsonschema:"phone number to check"`
	Numbers []string `json:"numbers,omitempty" jsonschema:"several phone numbers to check at once (max 50)"`
}

type ProfileInput struct {
	Number string `json:"number" jsonschema:"phone number in international format"`
}

// Results.

type SendReceipt struct {
	MessageID string `json:"message_id"`
	ChatID    string `json:"chat_id"`
	Number    string `json:"number"`
	MediaType string `json:"media_type,omitempty"`
	Status    string `json:"status,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

type ChatList struct {
	Chats []ChatSummary `json:"chats"`
	Count int           `json:"count"`
	Total int           `json:"total"`
}

type MessageList struct {
	ChatID   string           `json:"chat_id"`
	Messages []MessageSummary `json:"messages"`
	Count    int              `json:"count"`
	Total    int              `json:"total"`
}

type UnreadChats struct {
	Chats          []ChatSummary `json:"chats"`
	Count          int           `json:"count"`
	UnreadMessages int           `json:"unread_messages"`
}

type ReadReceipt struct {
	ChatID     string   `json:"chat_id"`
	MessageIDs []string `json:"message_ids"`
	Marked     int      `json:"marked"`
}

type ArchiveResult struct {
	ChatID   string `json:"chat_id"`
	Archived bool   `json:"archived"`
}

type NumberStatus struct {
	Number string `json:"number"`
	Exists bool   `json:"exists"`
	ChatID string `json:"chat_id,omitempty"`
}

type NumberCheckList struct {
	Results []NumberStatus `json:"results"`
	Count   int            `json:"count"`
}

type ProfilePicture struct {
	Number string  `json:"number"`
	ChatID string  `json:"chat_id"`
	URL    *string `json:"url"`
}

type Profile struct {
	Number      string   `json:"number"`
	ChatID      string   `json:"chat_id"`
	Exists      bool     `json:"exists"`
	Name        *string  `json:"name"`
	Status      *string  `json:"status"`
	PictureURL  string   `json:"picture_url,omitempty"`
	IsBusiness  bool     `json:"is_business"`
	Email       string   `json:"email,omitempty"`
	Description string   `json:"description,omitempty"`
	Website     []string `json:"website,omitempty"`
}

type BusinessProfile struct {
	Number      string   `json:"number"`
	ChatID      string   `json:"chat_id"`
	IsBusiness  bool     `json:"is_business"`
	Email       string   `json:"email,omitempty"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	Category    string   `json:"category,omitempty"`
	Website     []string `json:"website,omitempty"`
}

type ContactSummary struct {
	ID            string  `json:"id"`
	ChatID        string  `json:"chat_id"`
	Number        string  `json:"number,omitempty"`
	Name          *string `json:"name"`
	IsGroup       bool    `json:"is_group"`
	ProfilePicURL string  `json:"profile_pic_url,omitempty"`
}

type ContactList struct {
	Contacts []ContactSummary `json:"contacts"`
	Count    int              `json:"count"`
	Total    int              `json:"total"`
}

type ChatRef struct {
	Number string `json:"number"`
	ChatID string `json:"chat_id"`
}

type ConnectionStatus struct {
	Instance  string `json:"instance"`
	State     string `json:"state"`
	Connected bool   `json:"connected"`
}

type InstanceInfo struct {
	Instance     string      `json:"instance"`
	State        string      `json:"state"`
	Connected    bool        `json:"connected"`
	ContactCache CacheStatus `json:"contact_cache"`
}

type QRCode struct {
	Instance    string `json:"instance"`
	Code        string `json:"code,omitempty"`
	PairingCode string `json:"pairing_code,omitempty"`
	// Image is a data:image/png;base64 URI.
	Image string `json:"image,omitempty"`
	Count int    `json:"count,omitempty"`
}

type PresenceResult struct {
	Presence string `json:"presence"`
	Number   string `json:"number,omitempty"`
}

type CacheStatus struct {
	Loaded     bool   `json:"loaded"`
	Entries    int    `json:"entries"`
	LoadedAt   string `json:"loaded_at,omitempty"`
	AgeSeconds int64  `json:"age_seconds"`
	TTLSeconds int64  `json:"ttl_seconds"`
	Loads      int64  `json:"loads"`
}

// NoInput is the argument type of tools that take none.
type NoInput struct{}

type CacheCleared struct {
	Cleared bool   `json:"cleared"`
	Message string `json:"message"`
}
