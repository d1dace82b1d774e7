package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := JWTSecretKey
	JWTSecretKey = secret
	t.Cleanup(func() { JWTSecretKey = prev })
}

func testApp() *fiber.App {
	app := fiber.New()
	app.Use(BearerAuth())
	app.Get("/", func(c *fiber.Ctx) error {
		client, _ := c.Locals("client").(string)
		return c.SendString(client)
	})
	return app
}

func call(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestBearerAuthDisabledWithoutSecret(t *testing.T) {
	withSecret(t, "")
	assert.False(t, Enabled())
	assert.Equal(t, http.StatusOK, call(t, testApp(), ""))
}

func TestBearerAuth(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")
	app := testApp()

	token, err := GenerateToken("agent-runtime", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(t, app, "Bearer "+token))
	assert.Equal(t, http.StatusOK, call(t, app, "bearer "+token))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "Bearer not-a-jwt"))

	noExpiry, err := GenerateToken("agent-runtime", 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call(t, app, "Bearer "+noExpiry))
}

func TestValidateTokenRejectsForeignTokens(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: issuer, Subject: "x"})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "someone-else", Subject: "x"})
	signed, err = wrongIssuer.SignedString([]byte(JWTSecretKey))
	require.NoError(t, err)
	_, err = ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	stale := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err = stale.SignedString([]byte(JWTSecretKey))
	require.NoError(t, err)
	_, err = ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := ValidateToken(mustToken(t, "agent"))
	require.NoError(t, err)
	assert.Equal(t, "agent", claims.Subject)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	withSecret(t, "")
	_, err := GenerateToken("agent", time.Hour)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func mustToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := GenerateToken(subject, time.Minute)
	require.NoError(t, err)
	return token
}
