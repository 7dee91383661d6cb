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
	"gorm.io/gorm"
)

func GetSeatsByRoomId(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var room model.Room
	if err := db.First(&room, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_ROOM)
	}
	var seats []model.Seat
	if err := db.Where("room_id = ?", room.ID).Order("id").Find(&seats).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, seats)
}

func seatNumberTaken(tx *gorm.DB, roomId uint, number string, excludeId uint) (bool, error) {
	var count int64
	query := tx.Model(&model.Seat{}).Where("room_id = ? AND number = ?", roomId, number)
	if excludeId > 0 {
		query = query.Where("id <> ?", excludeId)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func CreateSeat(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateSeat").(model.CreateSeatInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var room model.Room
	if err := db.First(&room, input.RoomId).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_ROOM)
	}
	number := strings.ToUpper(strings.TrimSpace(input.Number))
	taken, err := seatNumberTaken(db, room.ID, number, 0)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if taken {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.SEAT_NUMBER_ALREADY_EXIST, errors.New("seat exists"), "number")
	}

	seat := model.Seat{Number: number, IsAccessible: input.IsAccessible, RoomId: room.ID}
	tx := db.Begin()
	if err := tx.Create(&seat).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Model(&room).Update("capacity", gorm.Expr("capacity + 1")).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, seat)
}

func EditSeat(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputEditSeat").(model.EditSeatInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var seat model.Seat
	if err := db.First(&seat, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_SEAT)
	}
	if input.Number != nil {
		number := strings.ToUpper(strings.TrimSpace(*input.Number))
		taken, err := seatNumberTaken(db, seat.RoomId, number, seat.ID)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		if taken {
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.SEAT_NUMBER_ALREADY_EXIST, errors.New("seat exists"), "number")
		}
		seat.Number = number
	}
	if input.IsAccessible != nil {
		seat.IsAccessible = *input.IsAccessible
	}
	if err := db.Save(&seat).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, seat)
}

func DeleteSeat(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var seat model.Seat
	if err := db.First(&seat, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_SEAT)
	}

	tx := db.Begin()
	if err := tx.Where("seat_id = ?", seat.ID).Delete(&model.SeatStatus{}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Delete(&seat).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Model(&model.Room{}).Where("id = ? AND capacity > 0", seat.RoomId).
		Update("capacity", gorm.Expr("capacity - 1")).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, seat)
}

// GetTimeRangeSeats returns the seat map of a time range.
func GetTimeRangeSeats(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	seats, err := helper.LoadTimeRangeSeatMap(database.DB, id.Uint())
	if err != nil {
		return recordError(c, err, constants.NOT_FOUND_TIME_RANGE)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, seats)
}
