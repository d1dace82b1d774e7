package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// HttpErrorHandler renders errors that escape a handler. fiber errors keep
// their code; everything else is classified like an operation error.
func HttpErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return failure(c, fiberErr.Code, fiberErr.Message)
	}
	return ResponseError(c, err)
}
