package evolution

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"go.mau.fi/whatsmeow/types"
)

// MessageKey identifies a message inside a chat.
type MessageKey struct {
	ID          string `json:"id"`
	RemoteJID   string `json:"remoteJid"`
	FromMe      bool   `json:"fromMe"`
	Participant string `json:"participant,omitempty"`
}

// Contact is one entry of /chat/findContacts.
type Contact struct {
	ID            string  `json:"id"`
	RemoteJID     string  `json:"remoteJid"`
	PushName      *string `json:"pushName"`
	ProfilePicURL string  `json:"profilePicUrl,omitempty"`
}

// IsGroup reports whether the contact address is a group JID.
func (c Contact) IsGroup() bool {
	return IsGroupJID(c.RemoteJID)
}

// Chat is one entry of /chat/findChats. It carries no display name of its
// own beyond the optional pushName reported by the remote side.
type Chat struct {
	ID          string   `json:"id"`
	RemoteJID   string   `json:"remoteJid"`
	PushName    *string  `json:"pushName"`
	Name        string   `json:"name,omitempty"`
	UnreadCount int      `json:"unreadCount"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}

// Message is one record of /chat/findMessages (also embedded as a chat's
// lastMessage).
type Message struct {
	ID          string          `json:"id"`
	Key         MessageKey      `json:"key"`
	PushName    *string         `json:"pushName"`
	MessageType string          `json:"messageType,omitempty"`
	Timestamp   int64           `json:"-"`
	Content     json.RawMessage `json:"message,omitempty"`
}

type messageAlias Message

func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		messageAlias
		MessageTimestamp json.RawMessage `json:"messageTimestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Message(raw.messageAlias)
	m.Timestamp = parseTimestamp(raw.MessageTimestamp)
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		messageAlias
		MessageTimestamp int64 `json:"messageTimestamp,omitempty"`
	}{messageAlias(m), m.Timestamp})
}

// parseTimestamp accepts both numeric and quoted timestamps.
func parseTimestamp(raw json.RawMessage) int64 {
	s := strings.Trim(string(bytes.TrimSpace(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Text extracts the human-readable body of a message, if any.
func (m Message) Text() string {
	if len(m.Content) == 0 {
		return ""
	}
	var body struct {
		Conversation        string `json:"conversation"`
		ExtendedTextMessage struct {
			Text string `json:"text"`
		} `json:"extendedTextMessage"`
		ImageMessage struct {
			Caption string `json:"caption"`
		} `json:"imageMessage"`
		VideoMessage struct {
			Caption string `json:"caption"`
		} `json:"videoMessage"`
		DocumentMessage struct {
			Caption  string `json:"caption"`
			FileName string `json:"fileName"`
		} `json:"documentMessage"`
	}
	if err := json.Unmarshal(m.Content, &body); err != nil {
		return ""
	}
	switch {
	case body.Conversation != "":
		return body.Conversation
	case body.ExtendedTextMessage.Text != "":
		return body.ExtendedTextMessage.Text
	case body.ImageMessage.Caption != "":
		return body.ImageMessage.Caption
	case body.VideoMessage.Caption != "":
		return body.VideoMessage.Caption
	case body.DocumentMessage.Caption != "":
		return body.DocumentMessage.Caption
	default:
		return body.DocumentMessage.FileName
	}
}

// SenderJID is the address whose name describes the message author: the
// participant inside a group, the chat itself otherwise. Messages sent by
// the instance have no remote author and return "".
func (m Message) SenderJID() string {
	if m.Key.FromMe {
		return ""
	}
	if m.Key.Participant != "" {
		return m.Key.Participant
	}
	return m.Key.RemoteJID
}

// MessagePage is the decoded /chat/findMessages response. Newer gateway
// versions wrap records in {"messages":{"records":[...]}}, older ones return
// a bare list; both decode into Records.
type MessagePage struct {
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"currentPage"`
	Records     []Message `json:"records"`
}

func (p *MessagePage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []Message
		if err := json.Unmarshal(data, &records); err != nil {
			return err
		}
		*p = MessagePage{Total: len(records), Pages: 1, CurrentPage: 1, Records: records}
		return nil
	}

	type page MessagePage
	var wrapped struct {
		Messages *page `json:"messages"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Messages != nil {
		*p = MessagePage(*wrapped.Messages)
		return nil
	}

	var flat page
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	*p = MessagePage(flat)
	return nil
}

// SendResult is the response of the send endpoints.
type SendResult struct {
	Key       MessageKey `json:"key"`
	Status    string     `json:"status,omitempty"`
	Timestamp int64      `json:"-"`
}

func (r *SendResult) UnmarshalJSON(data []byte) error {
	type alias SendResult
	var raw struct {
		alias
		MessageTimestamp json.RawMessage `json:"messageTimestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = SendResult(raw.alias)
	r.Timestamp = parseTimestamp(raw.MessageTimestamp)
	return nil
}

// ConnectionState is the response of /instance/connectionState. Older
// gateway versions report the state at the top level.
type ConnectionState struct {
	Instance string `json:"instance"`
	State    string `json:"state"`
}

func (s *ConnectionState) UnmarshalJSON(data []byte) error {
	var raw struct {
		Instance json.RawMessage `json:"instance"`
		State    string          `json:"state"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.State = raw.State

	var nested struct {
		InstanceName string `json:"instanceName"`
		State        string `json:"state"`
	}
	if len(raw.Instance) > 0 && raw.Instance[0] == '{' {
		if err := json.Unmarshal(raw.Instance, &nested); err != nil {
			return err
		}
		s.Instance = nested.InstanceName
		if nested.State != "" {
			s.State = nested.State
		}
		return nil
	}
	if len(raw.Instance) > 0 {
		_ = json.Unmarshal(raw.Instance, &s.Instance)
	}
	return nil
}

// ConnectCode is the response of /instance/connect.
type ConnectCode struct {
	Code        string `json:"code"`
	PairingCode string `json:"pairingCode"`
	Base64      string `json:"base64"`
	Count       int    `json:"count"`
}

// ContactFilter narrows /chat/findContacts. The zero value fetches every
// contact in one bulk call.
type ContactFilter struct {
	ID string
}

// SendTextRequest is the payload of /message/sendText.
type SendTextRequest struct {
	Number      string `json:"number"`
	Text        string `json:"text"`
	LinkPreview bool   `json:"linkPreview"`
}

// SendMediaRequest is the payload of /message/sendMedia.
type SendMediaRequest struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"`
	Media     string `json:"media"`
	Caption   string `json:"caption,omitempty"`
	FileName  string `json:"fileName,omitempty"`
}

// FindMessagesRequest is the payload of /chat/findMessages.
type FindMessagesRequest struct {
	ChatID string `json:"chatId,omitempty"`
	Query  string `json:"query,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// PresenceRequest is the payload of /chat/presenceUpdate.
type PresenceRequest struct {
	Presence string `json:"presence"`
	Number   string `json:"number,omitempty"`
}

// SendLocationRequest is the payload of /message/sendLocation.
type SendLocationRequest struct {
	Number    string  `json:"number"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ContactCard is one vCard entry of /message/sendContact.
type ContactCard struct {
	FullName     string `json:"fullName"`
	WUID         string `json:"wuid"`
	PhoneNumber  string `json:"phoneNumber"`
	Organization string `json:"organization,omitempty"`
}

// SendContactRequest is the payload of /message/sendContact.
type SendContactRequest struct {
	Number  string        `json:"number"`
	Contact []ContactCard `json:"contact"`
}

// ReadMessage addresses one message to mark as read.
type ReadMessage struct {
	RemoteJID string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
	ID        string `json:"id"`
}

// MarkReadRequest is the payload of /chat/markMessageAsRead.
type MarkReadRequest struct {
	ReadMessages []ReadMessage `json:"readMessages"`
}

// ArchiveChatRequest is the payload of /chat/archiveChat.
type ArchiveChatRequest struct {
	Chat    string `json:"chat"`
	Archive bool   `json:"archive"`
}

// NumberCheck is one entry of /chat/whatsappNumbers.
type NumberCheck struct {
	Exists bool   `json:"exists"`
	JID    string `json:"jid"`
	Number string `json:"number"`
}

type numberPayload struct {
	Number string `json:"number"`
}

// ProfilePicture is the response of /chat/fetchProfilePictureUrl.
type ProfilePicture struct {
	WUID              string `json:"wuid"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}

// Profile is the response of /chat/fetchProfile.
type Profile struct {
	WUID         string        `json:"wuid"`
	Name         string        `json:"name"`
	NumberExists bool          `json:"numberExists"`
	Picture      string        `json:"picture"`
	Status       ProfileStatus `json:"status"`
	IsBusiness   bool          `json:"isBusiness"`
	Email        string        `json:"email"`
	Description  string        `json:"description"`
	Website      StringList    `json:"website"`
}

// ProfileStatus is the "about" text. Some gateway versions send it as a
// plain string, others as {"status": "...", "setAt": ...}.
type ProfileStatus struct {
	Text string
}

func (s *ProfileStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &s.Text)
	}
	var nested struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &nested); err != nil {
		return err
	}
	s.Text = nested.Status
	return nil
}

// BusinessProfile is the response of /chat/fetchBusinessProfile.
type BusinessProfile struct {
	WUID        string     `json:"wuid"`
	IsBusiness  bool       `json:"isBusiness"`
	Email       string     `json:"email"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Category    string     `json:"category"`
	Website     StringList `json:"website"`
}

// StringList decodes either a string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*l = nil
		return nil
	case data[0] == '"':
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		if one == "" {
			*l = nil
			return nil
		}
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// IsGroupJID reports whether jid lives on the group server.
func IsGroupJID(jid string) bool {
	parsed, err := types.ParseJID(jid)
	if err != nil {
		return false
	}
	return parsed.Server == types.GroupServer
}

// UserPart returns the canonical digit identifier of a personal JID, or ""
// when jid is empty, malformed or a group.
func UserPart(jid string) string {
	parsed, err := types.ParseJID(strings.TrimSpace(jid))
	if err != nil || parsed.Server == types.GroupServer {
		return ""
	}
	return digitsOnly(parsed.User)
}

// UserJID builds the personal chat JID for a canonical number.
func UserJID(number string) string {
	return types.NewJID(number, types.DefaultUserServer).String()
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
