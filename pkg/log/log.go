package log

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const RedactedPlaceholder = "***"

var (
	logger = newLogger()
	hook   = &RedactHook{}
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	}
	return l
}

func init() {
	logger.AddHook(hook)
}

// Init sets the level ("debug", "info", "warn", "error") and the format
// ("text" or "json"). Unknown levels fall back to info.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		logger.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339}
		return
	}
	logger.Formatter = &logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	}
}

// Logger exposes the underlying logger, mainly so tests can swap the output.
func Logger() *logrus.Logger {
	return logger
}

// Print returns an entry carrying request fields when c is a fiber request.
func Print(c *fiber.Ctx) *logrus.Entry {
	if c == nil {
		return logger.WithFields(logrus.Fields{})
	}

	remoteIP := c.IP()
	if v, ok := c.Locals("remote_ip").(string); ok && v != "" {
		remoteIP = v
	}
	fields := logrus.Fields{
		"remote_ip": remoteIP,
		"method":    c.Method(),
		"uri":       c.OriginalURL(),
	}
	if v, ok := c.Locals("requestid").(string); ok && v != "" {
		fields["request_id"] = v
	}
	return logger.WithFields(fields)
}

// Op returns an entry for a core component operation.
func Op(op string) *logrus.Entry {
	return logger.WithField("op", op)
}

// AddSecret registers a value that must never reach the log output.
func AddSecret(secret string) {
	hook.Add(secret)
}

// Redact replaces every occurrence of secret in s with the placeholder.
func Redact(s, secret string) string {
	if secret == "" || s == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, RedactedPlaceholder)
}

// RedactHook scrubs registered secrets from the message and string fields
// of every entry before it is formatted.
type RedactHook struct {
	mu      sync.RWMutex
	secrets []string
}

func (h *RedactHook) Add(secret string) {
	if strings.TrimSpace(secret) == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.secrets {
		if s == secret {
			return
		}
	}
	h.secrets = append(h.secrets, secret)
}

func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RedactHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.secrets) == 0 {
		return nil
	}

	entry.Message = h.scrub(entry.Message)
	for k, v := range entry.Data {
		switch val := v.(type) {
		case string:
			entry.Data[k] = h.scrub(val)
		case error:
			entry.Data[k] = h.scrub(val.Error())
		}
	}
	return nil
}

func (h *RedactHook) scrub(s string) string {
	for _, secret := range h.secrets {
		s = Redact(s, secret)
	}
	return s
}
