package handler

import (
	"errors"
	"strings"

	"cinema_reservation/constants"
	"cinema_reservation/database"
	"cinema_reservation/helper"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func UpdateMe(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	input, ok := c.Locals("inputUpdateProfile").(model.UpdateProfileInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	updated := *user
	if err := copier.CopyWithOption(&updated, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := database.DB.Model(&model.User{DTO: model.DTO{ID: user.ID}}).
		Select("first_name", "last_name").
		Updates(&updated).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, updated)
}

func GetUsers(c *fiber.Ctx) error {
	db := database.DB
	var pagination model.Pagination
	if err := c.QueryParser(&pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	query := db.Model(&model.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	var users []model.User
	if err := utils.ApplyPagination(query.Order("id"), pagination.Limit, pagination.Page).Find(&users).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       users,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

func GetUserById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	var user model.User
	if err := database.DB.First(&user, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_USER)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

// CreateStaff adds an employee or admin account. Only holders of
// users:promote may create admins.
func CreateStaff(c *fiber.Ctx) error {
	caller, _ := helper.CurrentUser(c)
	input, ok := c.Locals("inputCreateStaff").(model.CreateStaffInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	if input.Role == constants.ROLE_ADMIN && !helper.Can(helper.Role(caller.Role), helper.CapUsersPromote) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("cannot create admin"))
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := helper.GetUserByEmail(email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if existing != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.EMAIL_ALREADY_EXISTS, errors.New("email exists"), "email")
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	var user model.User
	copier.Copy(&user, &input)
	user.Email = email
	user.Password = hash
	user.Active = true
	if err := database.DB.Create(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, user)
}

func ChangeRole(c *fiber.Ctx) error {
	caller, _ := helper.CurrentUser(c)
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputChangeRole").(model.ChangeRoleInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	if id.Uint() == caller.ID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.NOT_PERMISSION, errors.New("cannot change own role"))
	}

	db := database.DB
	var user model.User
	if err := db.First(&user, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_USER)
	}
	user.Role = input.Role
	if err := db.Model(&user).Update("role", input.Role).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func DeleteUser(c *fiber.Ctx) error {
	caller, _ := helper.CurrentUser(c)
	id := c.Locals("inputId").(model.ID)
	if id.Uint() == caller.ID {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.NOT_PERMISSION, errors.New("cannot delete yourself"))
	}

	db := database.DB
	var user model.User
	if err := db.First(&user, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_USER)
	}
	if user.Role == constants.ROLE_SUPERADMIN && !helper.Can(helper.Role(caller.Role), helper.CapUsersPromote) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("cannot delete superadmin"))
	}
	if err := db.Delete(&user).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

// recordError answers 404 for a missing row and 500 otherwise.
func recordError(c *fiber.Ctx, err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, notFound, err)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}
