package handler

import (
	"errors"

	"cinema_reservation/constants"
	"cinema_reservation/database"
	"cinema_reservation/helper"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GetRooms(c *fiber.Ctx) error {
	condition := database.DB.Model(&model.Room{})
	if cinemaId := c.QueryInt("cinemaId"); cinemaId > 0 {
		condition = condition.Where("cinema_id = ?", cinemaId)
	}
	var rooms []model.Room
	if err := condition.Order("cinema_id, number, id").Find(&rooms).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rooms)
}

func GetRoomById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	var room model.Room
	if err := database.DB.Preload("Cinema").First(&room, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_ROOM)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

// CreateRoom creates the room and, when rows and columns are given, its
// seat grid. Capacity follows the generated seats.
func CreateRoom(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateRoom").(model.CreateRoomInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var cinema model.Cinema
	if err := db.First(&cinema, input.CinemaId).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CINEMA)
	}

	var room model.Room
	copier.Copy(&room, &input)

	tx := db.Begin()
	if err := tx.Create(&room).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	seats, err := helper.CreateRoomSeats(tx, room.ID, input.Rows, input.Columns)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	room.Seats = seats
	room.Capacity = len(seats)
	if err := tx.Model(&room).Update("capacity", room.Capacity).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, room)
}

func EditRoom(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputEditRoom").(model.EditRoomInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var room model.Room
	if err := db.First(&room, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_ROOM)
	}
	if err := copier.CopyWithOption(&room, &input, copier.Option{IgnoreEmpty: true}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := db.Save(&room).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

func DeleteRoom(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var room model.Room
	if err := db.First(&room, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_ROOM)
	}

	tx := db.Begin()
	sessions := tx.Model(&model.Session{}).Select("id").Where("room_id = ?", room.ID)
	timeRanges := tx.Model(&model.TimeRange{}).Select("id").Where("session_id IN (?)", sessions)
	steps := []func() error{
		func() error { return tx.Where("time_range_id IN (?)", timeRanges).Delete(&model.SeatStatus{}).Error },
		func() error { return tx.Where("session_id IN (?)", sessions).Delete(&model.TimeRange{}).Error },
		func() error { return tx.Where("room_id = ?", room.ID).Delete(&model.Session{}).Error },
		func() error { return tx.Where("room_id = ?", room.ID).Delete(&model.Seat{}).Error },
		func() error { return tx.Delete(&room).Error },
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
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}
