package webhook

import (
	"encoding/json"
	"strings"
)

type EventType string

// Evolution API webhook events the gateway reacts to.
const (
	EventContactsSet      EventType = "contacts.set"
	EventContactsUpsert   EventType = "contacts.upsert"
	EventContactsUpdate   EventType = "contacts.update"
	EventChatsSet         EventType = "chats.set"
	EventChatsUpsert      EventType = "chats.upsert"
	EventChatsUpdate      EventType = "chats.update"
	EventConnectionUpdate EventType = "connection.update"
	EventMessagesUpsert   EventType = "messages.upsert"
)

type Action string

const (
	ActionInvalidated Action = "invalidated"
	ActionLogged      Action = "logged"
	ActionIgnored     Action = "ignored"
)

// Event is the envelope Evolution posts for every webhook event.
type Event struct {
	Event    EventType       `json:"event"`
	Instance string          `json:"instance"`
	Data     json.RawMessage `json:"data"`
	DateTime string          `json:"date_time,omitempty"`
	Sender   string          `json:"sender,omitempty"`
}

type Result struct {
	Event  EventType `json:"event"`
	Action Action    `json:"action"`
}

type Stats struct {
	Received      int64 `json:"received"`
	Invalidations int64 `json:"invalidations"`
	Rejected      int64 `json:"rejected"`
}

// NormalizeEventType accepts both "contacts.upsert" and the by-events form
// "CONTACTS_UPSERT" or "contacts-upsert".
func NormalizeEventType(raw string) EventType {
	raw = strings.ToLower(strings.TrimSpace(raw))
	raw = strings.NewReplacer("_", ".", "-", ".").Replace(raw)
	return EventType(raw)
}

// invalidatesDirectory reports whether t can change a resolved name. Chat
// events only do when chat names feed the directory.
func (t EventType) invalidatesDirectory(includeChats bool) bool {
	switch t {
	case EventContactsSet, EventContactsUpsert, EventContactsUpdate:
		return true
	case EventChatsSet, EventChatsUpsert, EventChatsUpdate:
		return includeChats
	}
	return false
}
