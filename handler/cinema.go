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
)

func GetCinemas(c *fiber.Ctx) error {
	var pagination model.Pagination
	if err := c.QueryParser(&pagination); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}

	condition := database.DB.Model(&model.Cinema{})
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		condition = condition.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		condition = condition.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var totalCount int64
	if err := condition.Count(&totalCount).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	var cinemas []model.Cinema
	if err := utils.ApplyPagination(condition, pagination.Limit, pagination.Page).Order("name").Find(&cinemas).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       cinemas,
		Limit:      pagination.Limit,
		Page:       pagination.Page,
		TotalCount: totalCount,
	})
}

func GetCinemaById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	var cinema model.Cinema
	if err := database.DB.Preload("Rooms").First(&cinema, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CINEMA)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cinema)
}

func cinemaNameTaken(name string, excludeId uint) (bool, error) {
	var count int64
	query := database.DB.Model(&model.Cinema{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeId > 0 {
		query = query.Where("id <> ?", excludeId)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func CreateCinema(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateCinema").(model.CreateCinemaInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	input.Name = strings.TrimSpace(input.Name)
	taken, err := cinemaNameTaken(input.Name, 0)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if taken {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.CINEMA_NAME_ALREADY_EXIST, errors.New("name exists"), "name")
	}

	var cinema model.Cinema
	copier.Copy(&cinema, &input)

	tx := database.DB.Begin()
	cinema.Slug = helper.GenerateUniqueCinemaSlug(tx, cinema.Name, 0)
	if err := tx.Create(&cinema).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, cinema)
}

func EditCinema(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputEditCinema").(model.EditCinemaInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var cinema model.Cinema
	if err := db.First(&cinema, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CINEMA)
	}

	nameChanged := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
		if name != cinema.Name {
			taken, err := cinemaNameTaken(name, cinema.ID)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
			}
			if taken {
				return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.CINEMA_NAME_ALREADY_EXIST, errors.New("name exists"), "name")
			}
			nameChanged = true
		}
	}
	if err := copier.CopyWithOption(&cinema, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	tx := db.Begin()
	if nameChanged {
		cinema.Slug = helper.GenerateUniqueCinemaSlug(tx, cinema.Name, cinema.ID)
	}
	if err := tx.Save(&cinema).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cinema)
}

// DeleteCinema removes the cinema with its rooms, seats, sessions and their
// seat statuses.
func DeleteCinema(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var cinema model.Cinema
	if err := db.First(&cinema, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CINEMA)
	}

	tx := db.Begin()
	sessions := tx.Model(&model.Session{}).Select("id").Where("cinema_id = ?", cinema.ID)
	timeRanges := tx.Model(&model.TimeRange{}).Select("id").Where("session_id IN (?)", sessions)
	rooms := tx.Model(&model.Room{}).Select("id").Where("cinema_id = ?", cinema.ID)
	steps := []func() error{
		func() error { return tx.Where("time_range_id IN (?)", timeRanges).Delete(&model.SeatStatus{}).Error },
		func() error { return tx.Where("session_id IN (?)", sessions).Delete(&model.TimeRange{}).Error },
		func() error { return tx.Where("cinema_id = ?", cinema.ID).Delete(&model.Session{}).Error },
		func() error { return tx.Where("room_id IN (?)", rooms).Delete(&model.Seat{}).Error },
		func() error { return tx.Where("cinema_id = ?", cinema.ID).Delete(&model.Room{}).Error },
		func() error { return tx.Delete(&cinema).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, cinema)
}

func GetRoomsByCinemaId(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var cinema model.Cinema
	if err := db.First(&cinema, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CINEMA)
	}
	var rooms []model.Room
	if err := db.Where("cinema_id = ?", cinema.ID).Order("number, id").Find(&rooms).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rooms)
}
