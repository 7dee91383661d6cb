package validate

import (
	"errors"

	"cinema_reservation/constants"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateSessionInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if err := validate.Struct(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		for i := range input.TimeRanges {
			if !input.TimeRanges[i].Normalize() {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.TIME_RANGE_INVALID, errors.New("end before start"), "timeRanges")
			}
		}
		c.Locals("inputCreateSession", input)
		return c.Next()
	}
}

func EditSession() fiber.Handler {
	return body[model.EditSessionInput]("inputEditSession")
}

func TimeRange() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.TimeRangeInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if err := validate.Struct(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if !input.Normalize() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.TIME_RANGE_INVALID, errors.New("end before start"))
		}
		c.Locals("inputTimeRange", input)
		return c.Next()
	}
}

func SessionFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.SessionFilter
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if input.Date != "" {
			if _, err := model.ParseDate(input.Date); err != nil {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err, "date")
			}
		}
		c.Locals("sessionFilter", input)
		return c.Next()
	}
}
