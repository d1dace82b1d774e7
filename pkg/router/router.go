package router

import (
	"strconv"
	"strings"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/env"
)

const defaultBodyLimit = 1024 * 1024

var BaseURL, CORSOrigin, BodyLimit string
var GZipLevel int
var DocsCacheTTLSeconds int
var bodyLimitBytes int

func init() {
	// HTTP_BASE_URL: empty by default (no prefix)
	BaseURL = normalizeBaseURL(env.GetEnvStringOrDefault("HTTP_BASE_URL", ""))

	// HTTP_CORS_ORIGIN: default "*" (allow all)
	CORSOrigin = env.GetEnvStringOrDefault("HTTP_CORS_ORIGIN", "*")

	// HTTP_BODY_LIMIT_SIZE: default "1M", text and media URLs only
	BodyLimit = env.GetEnvStringOrDefault("HTTP_BODY_LIMIT_SIZE", "1M")
	bodyLimitBytes = parseBodyLimit(BodyLimit)

	// HTTP_GZIP_LEVEL: default 1
	GZipLevel = env.GetEnvIntOrDefault("HTTP_GZIP_LEVEL", 1)

	// HTTP_DOCS_CACHE_TTL_SECONDS: default 300
	DocsCacheTTLSeconds = env.GetEnvIntOrDefault("HTTP_DOCS_CACHE_TTL_SECONDS", 300)
}

func BodyLimitBytes() int {
	return bodyLimitBytes
}

func normalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return ""
	}
	return "/" + strings.TrimLeft(raw, "/")
}

func parseBodyLimit(limit string) int {
	limit = strings.TrimSpace(strings.ToUpper(limit))
	if limit == "" {
		return defaultBodyLimit
	}
	multiplier := 1
	switch {
	case strings.HasSuffix(limit, "K"):
		multiplier = 1024
		limit = strings.TrimSuffix(limit, "K")
	case strings.HasSuffix(limit, "M"):
		multiplier = 1024 * 1024
		limit = strings.TrimSuffix(limit, "M")
	case strings.HasSuffix(limit, "G"):
		multiplier = 1024 * 1024 * 1024
		limit = strings.TrimSuffix(limit, "G")
	}
	value, err := strconv.Atoi(strings.TrimSpace(limit))
	if err != nil || value <= 0 {
		return defaultBodyLimit
	}
	return value * multiplier
}
