package profile

import (
	"github.com/gofiber/fiber/v2"

	typHTTP "github.com/gdbrns/go-whatsapp-mcp-gateway/internal/types"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/router"
)

// Picture
// @Summary     Get Profile Picture
// @Tags        Profile
// @Produce     json
// @Param       number path string true "Phone number"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /profile/picture/{number} [get]
func Picture(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pic, err := svc.GetProfilePicture(c.UserContext(), operations.ProfileInput{Number: c.Params("number")})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", pic)
	}
}

// Status
// @Summary     Get Profile
// @Description Profile name, about text and picture of a number
// @Tags        Profile
// @Produce     json
// @Param       number path string true "Phone number"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /profile/status/{number} [get]
func Status(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := svc.GetProfile(c.UserContext(), operations.ProfileInput{Number: c.Params("number")})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", profile)
	}
}

// Business
// @Summary     Get Business Profile
// @Tags        Profile
// @Produce     json
// @Param       number path string true "Phone number"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /profile/business/{number} [get]
func Business(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := svc.GetBusinessProfile(c.UserContext(), operations.ProfileInput{Number: c.Params("number")})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", profile)
	}
}

// CheckNumber
// @Summary     Check WhatsApp Numbers
// @Description Report which numbers have a WhatsApp account
// @Tags        Profile
// @Accept      json
// @Produce     json
// @Param       body body typHTTP.RequestCheckNumber true "Numbers"
// @Success     200
// @Failure     400
// @Security    BearerAuth
// @Router      /check-number [post]
func CheckNumber(svc *operations.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqCheckNumber typHTTP.RequestCheckNumber
		if err := c.BodyParser(&reqCheckNumber); err != nil {
			return router.ResponseBadRequest(c, "Failed parse body request")
		}

		checks, err := svc.CheckNumbers(c.UserContext(), operations.CheckNumberInput{
			Number:  reqCheckNumber.Number,
			Numbers: reqCheckNumber.Numbers,
		})
		if err != nil {
			return router.ResponseError(c, err)
		}
		return router.ResponseSuccessWithData(c, "", checks)
	}
}
