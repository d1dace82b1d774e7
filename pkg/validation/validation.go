package validation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"go.mau.fi/whatsmeow/types"
)

const (
	MaxTextLength    = 65536
	MaxCaptionLength = 1024
	MaxNameLength    = 256

	// MaxNumbers bounds one check_number call.
	MaxNumbers = 50

	DefaultLimit = 50
	MaxLimit     = 1000
)

// ErrInvalid is matched by every error this package returns.
var ErrInvalid = errors.New("validation failed")

var (
	mediaTypes = map[string]struct{}{
		"image":    {},
		"video":    {},
		"document": {},
		"audio":    {},
	}
	presences = map[string]struct{}{
		"available":   {},
		"unavailable": {},
		"composing":   {},
		"recording":   {},
	}
)

// FieldError describes one rejected input.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalid
}

func fieldError(field, rule, format string, args ...any) error {
	return &FieldError{Field: field, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// NormalizePhone strips every non-digit character. The result must not be empty.
func NormalizePhone(raw string) (string, error) {
	return NormalizePhoneField("number", raw)
}

// NormalizePhoneField is NormalizePhone reporting failures against field.
func NormalizePhoneField(field, raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", fieldError(field, "phone", "phone number must contain at least one digit")
	}
	return b.String(), nil
}

// ValidateMediaType accepts image, video, document and audio.
func ValidateMediaType(mediaType string) error {
	if _, ok := mediaTypes[mediaType]; ok {
		return nil
	}
	return fieldError("media_type", "oneof", "invalid media type %q, allowed: %s", mediaType, allowed(mediaTypes))
}

// ValidateURL requires an http:// or https:// prefix.
func ValidateURL(field, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fieldError(field, "required", "url cannot be empty")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fieldError(field, "url", "url must start with http:// or https://")
	}
	return nil
}

// ValidateText rejects text longer than max characters.
func ValidateText(field, text string, max int) error {
	if n := utf8.RuneCountInString(text); n > max {
		return fieldError(field, "max", "text too long: %d characters, maximum %d", n, max)
	}
	return nil
}

// ValidateCoordinates requires a latitude in [-90, 90] and a longitude in
// [-180, 180].
func ValidateCoordinates(latitude, longitude float64) error {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return fieldError("latitude", "range", "latitude must be between -90 and 90")
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return fieldError("longitude", "range", "longitude must be between -180 and 180")
	}
	return nil
}

// ValidatePresence accepts available, unavailable, composing and recording.
func ValidatePresence(presence string) error {
	if _, ok := presences[presence]; ok {
		return nil
	}
	return fieldError("presence", "oneof", "invalid presence %q, allowed: %s", presence, allowed(presences))
}

// ValidateLimit returns the effective page size. Zero means the default.
func ValidateLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return DefaultLimit, nil
	case limit < 0 || limit > MaxLimit:
		return 0, fieldError("limit", "range", "limit must be between 1 and %d", MaxLimit)
	}
	return limit, nil
}

// ValidateChatID turns a phone number or JID into a chat JID.
func ValidateChatID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fieldError("chat_id", "required", "chat id cannot be empty")
	}
	if !strings.Contains(id, "@") {
		number, err := NormalizePhone(id)
		if err != nil {
			return "", fieldError("chat_id", "phone", "chat id must be a phone number or a JID")
		}
		return types.NewJID(number, types.DefaultUserServer).String(), nil
	}
	jid, err := types.ParseJID(id)
	if err != nil || jid.User == "" || jid.Server == "" {
		return "", fieldError("chat_id", "jid", "malformed chat id %q", id)
	}
	return jid.String(), nil
}

func allowed(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
