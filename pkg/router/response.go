package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/evolution"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/validation"
)

type Response struct {
	Status  bool        `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func logSuccess(c *fiber.Ctx, code int, message string) {
	statusMessage := http.StatusText(code)

	if statusMessage == message || c.OriginalURL() == BaseURL {
		log.Print(c).Info(fmt.Sprintf("%d %v", code, statusMessage))
	} else {
		log.Print(c).Info(fmt.Sprintf("%d %v", code, message))
	}
}

func logError(c *fiber.Ctx, code int, message string) {
	statusMessage := http.StatusText(code)
	entry := log.Print(c)

	if statusMessage != message {
		statusMessage = message
	}
	if code >= http.StatusInternalServerError {
		entry.Error(fmt.Sprintf("%d %v", code, statusMessage))
	} else {
		entry.Warn(fmt.Sprintf("%d %v", code, statusMessage))
	}
}

func success(c *fiber.Ctx, code int, message string, data interface{}) error {
	response := Response{
		Status: true,
		Code:   code,
		Data:   data,
	}

	if strings.TrimSpace(message) == "" {
		message = http.StatusText(response.Code)
	}
	response.Message = message

	logSuccess(c, response.Code, response.Message)
	return c.Status(response.Code).JSON(response)
}

func failure(c *fiber.Ctx, code int, message string) error {
	response := Response{
		Status: false,
		Code:   code,
	}

	if strings.TrimSpace(message) == "" {
		message = http.StatusText(response.Code)
	}
	response.Message = message
	response.Error = message

	logError(c, response.Code, response.Message)
	return c.Status(response.Code).JSON(response)
}

func ResponseSuccess(c *fiber.Ctx, message string) error {
	return success(c, http.StatusOK, message, nil)
}

func ResponseSuccessWithData(c *fiber.Ctx, message string, data interface{}) error {
	return success(c, http.StatusOK, message, data)
}

func ResponseNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

func ResponseBadRequest(c *fiber.Ctx, message string) error {
	return failure(c, http.StatusBadRequest, message)
}

func ResponseUnauthorized(c *fiber.Ctx, message string) error {
	c.Set("WWW-Authenticate", `Bearer realm="whatsapp-mcp-gateway"`)
	return failure(c, http.StatusUnauthorized, message)
}

func ResponseNotFound(c *fiber.Ctx, message string) error {
	return failure(c, http.StatusNotFound, message)
}

func ResponseServiceUnavailable(c *fiber.Ctx, message string) error {
	return failure(c, http.StatusServiceUnavailable, message)
}

func ResponseInternalError(c *fiber.Ctx, message string) error {
	return failure(c, http.StatusInternalServerError, message)
}

// ResponseError renders an operation error with the status of its kind.
func ResponseError(c *fiber.Ctx, err error) error {
	return failure(c, StatusForError(err), err.Error())
}

// StatusForError maps the error taxonomy onto HTTP statuses. Upstream
// credential and transport failures surface as 502.
func StatusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, validation.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, evolution.ErrRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, evolution.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, evolution.ErrAuth):
		return http.StatusBadGateway
	case errors.Is(err, evolution.ErrTransient):
		return http.StatusServiceUnavailable
	case errors.Is(err, evolution.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, evolution.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
