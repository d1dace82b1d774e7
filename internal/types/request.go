package types

type RequestSendText struct {
	Number      string `json:"number"`
	Text        string `json:"text"`
	LinkPreview *bool  `json:"link_preview"`
}

type RequestSendMedia struct {
	Number    string `json:"number"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
	Caption   string `json:"caption"`
	FileName  string `json:"filename"`
}

type RequestSendLocation struct {
	Number    string  `json:"number"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
}

type RequestSendContact struct {
	Number              string `json:"number"`
	ContactName         string `json:"contact_name"`
	ContactPhone        string `json:"contact_phone"`
	ContactOrganization string `json:"contact_organization"`
}

type RequestMarkRead struct {
	Number     string   `json:"number"`
	ChatID     string   `json:"chat_id"`
	MessageIDs []string `json:"message_ids"`
}

type RequestArchiveChat struct {
	Number  string `json:"number"`
	ChatID  string `json:"chat_id"`
	Archive *bool  `json:"archive"`
}

type RequestCheckNumber struct {
	Number  string   `json:"number"`
	Numbers []string `json:"numbers"`
}

type RequestPresence struct {
	Number   string `json:"number"`
	Presence string `json:"presence"`
}

type QueryLimit struct {
	Limit int `query:"limit"`
}

type QueryMessages struct {
	ChatID string `query:"chat_id"`
	Query  string `query:"query"`
	Limit  int    `query:"limit"`
}

type QueryContacts struct {
	ContactID string `query:"contact_id"`
	Name      string `query:"name"`
	Limit     int    `query:"limit"`
}

// LinkPreviewOrDefault keeps previews on unless the body disables them.
func (r RequestSendText) LinkPreviewOrDefault() bool {
	if r.LinkPreview == nil {
		return true
	}
	return *r.LinkPreview
}
