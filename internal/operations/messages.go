package operations

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/validation"
)

// SendText normalizes the number, checks the text and sends it.
func (s *Service) SendText(ctx context.Context, in SendTextInput) (SendReceipt, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return SendReceipt{}, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return SendReceipt{}, &validation.FieldError{Field: "text", Rule: "required", Message: "text cannot be empty"}
	}
	if err := validation.ValidateText("text", in.Text, validation.MaxTextLength); err != nil {
		return SendReceipt{}, err
	}

	res, err := s.gw.SendText(ctx, evolution.SendTextRequest{
		Number:      number,
		Text:        in.Text,
		LinkPreview: in.LinkPreview,
	})
	if err != nil {
		return SendReceipt{}, err
	}

	log.Op("send_text_message").WithFields(logrus.Fields{
		"number":      number,
		"text_length": len([]rune(in.Text)),
		"message_id":  res.Key.ID,
	}).Info("text message sent")

	return receipt(number, "", res), nil
}

// SendMedia sends a file referenced by URL.
func (s *Service) SendMedia(ctx context.Context, in SendMediaInput) (SendReceipt, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return SendReceipt{}, err
	}
	mediaType := strings.ToLower(strings.TrimSpace(in.MediaType))
	if err := validation.ValidateMediaType(mediaType); err != nil {
		return SendReceipt{}, err
	}
	if err := validation.ValidateURL("media_url", in.MediaURL); err != nil {
		return SendReceipt{}, err
	}
	if err := validation.ValidateText("caption", in.Caption, validation.MaxCaptionLength); err != nil {
		return SendReceipt{}, err
	}

	res, err := s.gw.SendMedia(ctx, evolution.SendMediaRequest{
		Number:    number,
		MediaType: mediaType,
		Media:     strings.TrimSpace(in.MediaURL),
		Caption:   in.Caption,
		FileName:  strings.TrimSpace(in.FileName),
	})
	if err != nil {
		return SendReceipt{}, err
	}

	log.Op("send_media").WithFields(logrus.Fields{
		"number":     number,
		"media_type": mediaType,
		"message_id": res.Key.ID,
	}).Info("media message sent")

	return receipt(number, mediaType, res), nil
}

// SendMediaAs sends in with a fixed media type (send_image, send_video, ...).
func (s *Service) SendMediaAs(ctx context.Context, mediaType string, in MediaInput) (SendReceipt, error) {
	return s.SendMedia(ctx, SendMediaInput{
		Number:    in.Number,
		MediaURL:  in.MediaURL,
		MediaType: mediaType,
		Caption:   in.Caption,
		FileName:  in.FileName,
	})
}

// SendLocation sends a location pin.
func (s *Service) SendLocation(ctx context.Context, in SendLocationInput) (SendReceipt, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return SendReceipt{}, err
	}
	if err := validation.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		return SendReceipt{}, err
	}
	if err := validation.ValidateText("name", in.Name, validation.MaxNameLength); err != nil {
		return SendReceipt{}, err
	}
	if err := validation.ValidateText("address", in.Address, validation.MaxNameLength); err != nil {
		return SendReceipt{}, err
	}

	res, err := s.gw.SendLocation(ctx, evolution.SendLocationRequest{
		Number:    number,
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	})
	if err != nil {
		return SendReceipt{}, err
	}

	log.Op("send_location").WithFields(logrus.Fields{
		"number":     number,
		"message_id": res.Key.ID,
	}).Info("location sent")

	return receipt(number, "", res), nil
}

// SendContact shares one contact card.
func (s *Service) SendContact(ctx context.Context, in SendContactInput) (SendReceipt, error) {
	number, err := validation.NormalizePhone(in.Number)
	if err != nil {
		return SendReceipt{}, err
	}
	name := strings.TrimSpace(in.ContactName)
	if name == "" {
		return SendReceipt{}, &validation.FieldError{Field: "contact_name", Rule: "required", Message: "contact name cannot be empty"}
	}
	if err := validation.ValidateText("contact_name", name, validation.MaxNameLength); err != nil {
		return SendReceipt{}, err
	}
	phone, err := validation.NormalizePhoneField("contact_phone", in.ContactPhone)
	if err != nil {
		return SendReceipt{}, err
	}
	if err := validation.ValidateText("contact_organization", in.ContactOrganization, validation.MaxNameLength); err != nil {
		return SendReceipt{}, err
	}

	res, err := s.gw.SendContact(ctx, evolution.SendContactRequest{
		Number: number,
		Contact: []evolution.ContactCard{{
			FullName:     name,
			WUID:         phone,
			PhoneNumber:  "+" + phone,
			Organization: strings.TrimSpace(in.ContactOrganization),
		}},
	})
	if err != nil {
		return SendReceipt{}, err
	}

	log.Op("send_contact").WithFields(logrus.Fields{
		"number":     number,
		"message_id": res.Key.ID,
	}).Info("contact card sent")

	return receipt(number, "", res), nil
}

func receipt(number, mediaType string, res evolution.SendResult) SendReceipt {
	chatID := res.Key.RemoteJID
	if chatID == "" {
		chatID = evolution.UserJID(number)
	}
	return SendReceipt{
		MessageID: res.Key.ID,
		ChatID:    chatID,
		Number:    number,
		MediaType: mediaType,
		Status:    res.Status,
		Timestamp: res.Timestamp,
	}
}

// GetChatMessages fetches messages of one chat, addressed by chat_id or number.
func (s *Service) GetChatMessages(ctx context.Context, in GetChatMessagesInput) (MessageList, error) {
	chatID, err := chatTarget(in.ChatID, in.Number)
	if err != nil {
		return MessageList{}, err
	}
	limit, err := validation.ValidateLimit(in.Limit)
	if err != nil {
		return MessageList{}, err
	}

	page, err := s.gw.FindMessages(ctx, evolution.FindMessagesRequest{
		ChatID: chatID,
		Query:  strings.TrimSpace(in.Query),
		Limit:  limit,
	})
	if err != nil {
		return MessageList{}, err
	}

	records := truncate(page.Records, limit)
	messages := s.enricher.Messages(ctx, records)
	total := page.Total
	if total < len(page.Records) {
		total = len(page.Records)
	}
	return MessageList{
		ChatID:   chatID,
		Messages: messages,
		Count:    len(messages),
		Total:    total,
	}, nil
}

func chatTarget(chatID, number string) (string, error) {
	if strings.TrimSpace(chatID) != "" {
		return validation.ValidateChatID(chatID)
	}
	if strings.TrimSpace(number) == "" {
		return "", &validation.FieldError{Field: "chat_id", Rule: "required", Message: "chat_id or number is required"}
	}
	n, err := validation.NormalizePhone(number)
	if err != nil {
		return "", err
	}
	return evolution.UserJID(n), nil
}
