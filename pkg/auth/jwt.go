package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "whatsapp-mcp-gateway"

var (
	ErrNotConfigured = errors.New("HTTP_JWT_SECRET not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

// ClientClaims identifies the agent runtime calling the gateway.
type ClientClaims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for subject. ttl <= 0 issues a token
// without expiry.
func GenerateToken(subject string, ttl time.Duration) (string, error) {
	if JWTSecretKey == "" {
		return "", ErrNotConfigured
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := time.Now()
	claims := ClientClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(JWTSecretKey))
}

// ValidateToken verifies signature, issuer and time claims.
func ValidateToken(tokenString string) (*ClientClaims, error) {
	if JWTSecretKey == "" {
		return nil, ErrNotConfigured
	}

	token, err := jwt.ParseWithClaims(tokenString, &ClientClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*ClientClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
