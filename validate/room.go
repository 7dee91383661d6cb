package validate

import (
	"errors"

	"cinema_reservation/constants"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateRoom() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateRoomInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if err := validate.Struct(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if (input.Rows == "") != (input.Columns == 0) {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_INPUT, errors.New("rows and columns go together"), "rows")
		}
		c.Locals("inputCreateRoom", input)
		return c.Next()
	}
}

func EditRoom() fiber.Handler {
	return body[model.EditRoomInput]("inputEditRoom")
}

func CreateSeat() fiber.Handler {
	return body[model.CreateSeatInput]("inputCreateSeat")
}

func EditSeat() fiber.Handler {
	return body[model.EditSeatInput]("inputEditSeat")
}
