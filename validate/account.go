package validate

import (
	"errors"

	"cinema_reservation/constants"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return body[model.RegisterInput]("inputRegister")
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.LoginInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if input.Email == "" || input.Password == "" {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, errors.New("missing email or password"))
		}
		c.Locals("inputLogin", input)
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return body[model.UpdateProfileInput]("inputUpdateProfile")
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ChangePasswordInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if err := validate.Struct(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if input.NewPassword != input.RepeatPassword {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.PASSWORDS_DO_NOT_MATCH, errors.New("passwords differ"), "repeatPassword")
		}
		c.Locals("inputChangePassword", input)
		return c.Next()
	}
}

func ForgotPassword() fiber.Handler {
	return body[model.ForgotPasswordInput]("inputForgotPassword")
}

func ResetPassword() fiber.Handler {
	return body[model.ResetPasswordInput]("inputResetPassword")
}

func CreateStaff() fiber.Handler {
	return body[model.CreateStaffInput]("inputCreateStaff")
}

func ChangeRole() fiber.Handler {
	return body[model.ChangeRoleInput]("inputChangeRole")
}
