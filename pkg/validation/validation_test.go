package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 123-4567":  "15551234567",
		"5511999999999":      "5511999999999",
		" +55 11 99999-9999": "5511999999999",
		"0044 20 7946 0958":  "00442079460958",
	}
	for in, want := range cases {
		got, err := NormalizePhone(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "   ", "abc", "+()-"} {
		_, err := NormalizePhone(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrInvalid)

		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "number", fe.Field)
	}
}

func TestNormalizePhoneFieldNamesField(t *testing.T) {
	got, err := NormalizePhoneField("contact_phone", "+55 11 98888-8888")
	require.NoError(t, err)
	assert.Equal(t, "5511988888888", got)

	_, err = NormalizePhoneField("contact_phone", "n/a")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "contact_phone", fe.Field)
}

func TestNormalizePhoneProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("result is the digits of the input", prop.ForAll(
		func(raw string) bool {
			var digits strings.Builder
			for _, r := range raw {
				if r >= '0' && r <= '9' {
					digits.WriteRune(r)
				}
			}
			got, err := NormalizePhone(raw)
			if digits.Len() == 0 {
				return errors.Is(err, ErrInvalid) && got == ""
			}
			return err == nil && got == digits.String()
		},
		gen.AnyString(),
	))

	properties.Property("normalizing is idempotent", prop.ForAll(
		func(raw string) bool {
			once, err := NormalizePhone(raw)
			if err != nil {
				return true
			}
			twice, err := NormalizePhone(once)
			return err == nil && once == twice
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestValidateMediaType(t *testing.T) {
	for _, mt := range []string{"image", "video", "document", "audio"} {
		assert.NoError(t, ValidateMediaType(mt))
	}
	for _, mt := range []string{"", "sticker", "IMAGE", "gif"} {
		err := ValidateMediaType(mt)
		require.Error(t, err, mt)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "audio, document, image, video")
	}
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("media_url", "http://example.com/a.png"))
	assert.NoError(t, ValidateURL("media_url", "https://example.com/a.png"))

	for _, raw := range []string{"", "ftp://example.com/a.png", "example.com", "file:///etc/passwd"} {
		err := ValidateURL("media_url", raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.True(t, strings.HasPrefix(err.Error(), "media_url: "))
	}
}

func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("text", strings.Repeat("a", MaxTextLength), MaxTextLength))
	assert.ErrorIs(t, ValidateText("text", strings.Repeat("a", MaxTextLength+1), MaxTextLength), ErrInvalid)

	// counted in characters, not bytes
	assert.NoError(t, ValidateText("caption", strings.Repeat("é", MaxCaptionLength), MaxCaptionLength))
	assert.ErrorIs(t, ValidateText("caption", strings.Repeat("é", MaxCaptionLength+1), MaxCaptionLength), ErrInvalid)
}

func TestValidateTextProperty(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("text within the bound is accepted", prop.ForAll(
		func(s string) bool {
			return ValidateText("text", s, len([]rune(s))) == nil
		},
		gen.UnicodeString(unicode.Latin),
	))

	properties.Property("one character past the bound is rejected", prop.ForAll(
		func(s string) bool {
			return errors.Is(ValidateText("text", s+"x", len([]rune(s))), ErrInvalid)
		},
		gen.UnicodeString(unicode.Latin),
	))

	properties.TestingRun(t)
}

func TestValidatePresence(t *testing.T) {
	for _, p := range []string{"available", "unavailable", "composing", "recording"} {
		assert.NoError(t, ValidatePresence(p))
	}
	assert.ErrorIs(t, ValidatePresence("typing"), ErrInvalid)
	assert.ErrorIs(t, ValidatePresence(""), ErrInvalid)
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(-23.550520, -46.633308))
	assert.NoError(t, ValidateCoordinates(0, 0))
	assert.NoError(t, ValidateCoordinates(90, -180))

	cases := map[string][2]float64{
		"latitude":  {90.0001, 0},
		"longitude": {0, 180.5},
	}
	for field, c := range cases {
		err := ValidateCoordinates(c[0], c[1])
		var fe *FieldError
		require.ErrorAs(t, err, &fe, field)
		assert.Equal(t, field, fe.Field)
	}
	assert.ErrorIs(t, ValidateCoordinates(math.NaN(), 0), ErrInvalid)
}

func TestValidateLimit(t *testing.T) {
	n, err := ValidateLimit(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, n)

	n, err = ValidateLimit(MaxLimit)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, n)

	_, err = ValidateLimit(-1)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = ValidateLimit(MaxLimit + 1)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateChatID(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 123-4567":           "15551234567@s.whatsapp.net",
		"5511999999999@s.whatsapp.net": "5511999999999@s.whatsapp.net",
		"120363000000000000@g.us":      "120363000000000000@g.us",
	}
	for in, want := range cases {
		got, err := ValidateChatID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "  ", "abc", "@s.whatsapp.net"} {
		_, err := ValidateChatID(in)
		assert.ErrorIs(t, err, ErrInvalid, in)
	}
}
