package evolution

import (
	"context"
	"net/http"
)

const (
	pathFindChats       = "/chat/findChats/" + InstancePlaceholder
	pathFindMessages    = "/chat/findMessages/" + InstancePlaceholder
	pathFindContacts    = "/chat/findContacts/" + InstancePlaceholder
	pathPresenceUpdate  = "/chat/presenceUpdate/" + InstancePlaceholder
	pathSendText        = "/message/sendText/" + InstancePlaceholder
	pathSendMedia       = "/message/sendMedia/" + InstancePlaceholder
	pathConnectionState = "/instance/connectionState/" + InstancePlaceholder
	pathConnect         = "/instance/connect/" + InstancePlaceholder

	pathSendLocation         = "/message/sendLocation/" + InstancePlaceholder
	pathSendContact          = "/message/sendContact/" + InstancePlaceholder
	pathMarkMessageAsRead    = "/chat/markMessageAsRead/" + InstancePlaceholder
	pathArchiveChat          = "/chat/archiveChat/" + InstancePlaceholder
	pathWhatsAppNumbers      = "/chat/whatsappNumbers/" + InstancePlaceholder
	pathFetchProfilePicture  = "/chat/fetchProfilePictureUrl/" + InstancePlaceholder
	pathFetchProfile         = "/chat/fetchProfile/" + InstancePlaceholder
	pathFetchBusinessProfile = "/chat/fetchBusinessProfile/" + InstancePlaceholder
)

// FindChats fetches every chat of the instance in one call.
func (c *Client) FindChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := c.Call(ctx, http.MethodPost, pathFindChats, struct{}{}, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// FindMessages fetches messages, optionally scoped to one chat.
func (c *Client) FindMessages(ctx context.Context, req FindMessagesRequest) (MessagePage, error) {
	var page MessagePage
	if err := c.Call(ctx, http.MethodPost, pathFindMessages, req, &page); err != nil {
		return MessagePage{}, err
	}
	return page, nil
}

// FindContacts fetches contacts. The zero filter is the bulk fetch used to
// build the name directory; a filter with an ID narrows it to one address.
func (c *Client) FindContacts(ctx context.Context, filter ContactFilter) ([]Contact, error) {
	payload := map[string]any{}
	if filter.ID != "" {
		payload["where"] = map[string]string{"id": filter.ID}
	}
	var contacts []Contact
	if err := c.Call(ctx, http.MethodPost, pathFindContacts, payload, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// SendText sends a text message.
func (c *Client) SendText(ctx context.Context, req SendTextRequest) (SendResult, error) {
	var res SendResult
	if err := c.Call(ctx, http.MethodPost, pathSendText, req, &res); err != nil {
		return SendResult{}, err
	}
	return res, nil
}

// SendMedia sends an image, video, document or audio referenced by URL.
func (c *Client) SendMedia(ctx context.Context, req SendMediaRequest) (SendResult, error) {
	var res SendResult
	if err := c.Call(ctx, http.MethodPost, pathSendMedia, req, &res); err != nil {
		return SendResult{}, err
	}
	return res, nil
}

// ConnectionState reports the session state of the instance.
func (c *Client) ConnectionState(ctx context.Context) (ConnectionState, error) {
	var state ConnectionState
	if err := c.Call(ctx, http.MethodGet, pathConnectionState, nil, &state); err != nil {
		return ConnectionState{}, err
	}
	if state.Instance == "" {
		state.Instance = c.instance
	}
	return state, nil
}

// Connect asks the gateway for a pairing code / QR payload.
func (c *Client) Connect(ctx context.Context) (ConnectCode, error) {
	var code ConnectCode
	if err := c.Call(ctx, http.MethodGet, pathConnect, nil, &code); err != nil {
		return ConnectCode{}, err
	}
	return code, nil
}

// SetPresence updates the presence of the instance, optionally towards one
// number.
func (c *Client) SetPresence(ctx context.Context, req PresenceRequest) error {
	return c.Call(ctx, http.MethodPost, pathPresenceUpdate, req, nil)
}

// SendLocation sends a location pin.
func (c *Client) SendLocation(ctx context.Context, req SendLocationRequest) (SendResult, error) {
	var res SendResult
	if err := c.Call(ctx, http.MethodPost, pathSendLocation, req, &res); err != nil {
		return SendResult{}, err
	}
	return res, nil
}

// SendContact shares one or more contact cards.
func (c *Client) SendContact(ctx context.Context, req SendContactRequest) (SendResult, error) {
	var res SendResult
	if err := c.Call(ctx, http.MethodPost, pathSendContact, req, &res); err != nil {
		return SendResult{}, err
	}
	return res, nil
}

// MarkMessagesRead sends read receipts for the given messages.
func (c *Client) MarkMessagesRead(ctx context.Context, messages []ReadMessage) error {
	return c.Call(ctx, http.MethodPost, pathMarkMessageAsRead, MarkReadRequest{ReadMessages: messages}, nil)
}

// ArchiveChat archives or unarchives a chat.
func (c *Client) ArchiveChat(ctx context.Context, req ArchiveChatRequest) error {
	return c.Call(ctx, http.MethodPost, pathArchiveChat, req, nil)
}

// WhatsAppNumbers reports which numbers have a WhatsApp account.
func (c *Client) WhatsAppNumbers(ctx context.Context, numbers []string) ([]NumberCheck, error) {
	var checks []NumberCheck
	payload := map[string][]string{"numbers": numbers}
	if err := c.Call(ctx, http.MethodPost, pathWhatsAppNumbers, payload, &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// FetchProfilePicture returns the profile picture URL of a number.
func (c *Client) FetchProfilePicture(ctx context.Context, number string) (ProfilePicture, error) {
	var pic ProfilePicture
	if err := c.Call(ctx, http.MethodPost, pathFetchProfilePicture, numberPayload{number}, &pic); err != nil {
		return ProfilePicture{}, err
	}
	return pic, nil
}

// FetchProfile returns the public profile (name, about text, picture) of a number.
func (c *Client) FetchProfile(ctx context.Context, number string) (Profile, error) {
	var profile Profile
	if err := c.Call(ctx, http.MethodPost, pathFetchProfile, numberPayload{number}, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// FetchBusinessProfile returns the business profile of a number.
func (c *Client) FetchBusinessProfile(ctx context.Context, number string) (BusinessProfile, error) {
	var profile BusinessProfile
	if err := c.Call(ctx, http.MethodPost, pathFetchBusinessProfile, numberPayload{number}, &profile); err != nil {
		return BusinessProfile{}, err
	}
	return profile, nil
}
