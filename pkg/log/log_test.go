package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFormatter, prevLevel := logger.Out, logger.Formatter, logger.Level
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetOutput(prevOut)
		logger.Formatter = prevFormatter
		logger.SetLevel(prevLevel)
	})
	return &buf
}

func TestRedactHookScrubsMessageAndFields(t *testing.T) {
	buf := capture(t)
	AddSecret("super-secret-key")
	AddSecret("  ")

	Op("test").
		WithField("url", "https://evo.local/?apikey=super-secret-key").
		WithError(errors.New("rejected super-secret-key")).
		Error("call with super-secret-key failed")

	out := buf.String()
	assert.NotContains(t, out, "super-secret-key")
	assert.Contains(t, out, RedactedPlaceholder)
	assert.Contains(t, out, "op=test")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "key=***", Redact("key=abc", "abc"))
	assert.Equal(t, "key=abc", Redact("key=abc", ""))
	assert.Equal(t, "", Redact("", "abc"))
}

func TestInitSelectsFormatAndLevel(t *testing.T) {
	buf := capture(t)

	Init("warn", "json")
	assert.Equal(t, logrus.WarnLevel, logger.Level)
	Print(nil).Info("hidden")
	Print(nil).Warn("shown")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "shown", line["msg"])

	Init("nonsense", "text")
	assert.Equal(t, logrus.InfoLevel, logger.Level)
	_, isText := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

func TestPrintCarriesRequestFields(t *testing.T) {
	buf := capture(t)
	logger.Formatter = &logrus.JSONFormatter{}

	app := fiber.New()
	app.Get("/chats", func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-1")
		c.Locals("remote_ip", "203.0.113.7")
		Print(c).Info("handled")
		return nil
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/chats?limit=5", nil))
	require.NoError(t, err)
	resp.Body.Close()

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "203.0.113.7", line["remote_ip"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/chats?limit=5", line["uri"])
}
