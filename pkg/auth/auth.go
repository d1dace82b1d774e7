package auth

import (
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/env"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

// JWTSecretKey signs and verifies bearer tokens for the HTTP transport.
// Empty disables authentication.
var JWTSecretKey string

func init() {
	JWTSecretKey, _ = env.GetEnvString("HTTP_JWT_SECRET")
	log.AddSecret(JWTSecretKey)
}

// Enabled reports whether the HTTP routes require a bearer token.
func Enabled() bool {
	return JWTSecretKey != ""
}
