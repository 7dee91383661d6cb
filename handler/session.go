package handler

import (
	"errors"
	"fmt"

	"cinema_reservation/constants"
	"cinema_reservation/database"
	"cinema_reservation/helper"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetSessions(c *fiber.Ctx) error {
	filter, ok := c.Locals("sessionFilter").(model.SessionFilter)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	condition := db.Model(&model.Session{})
	if filter.MovieId > 0 {
		condition = condition.Where("movie_id = ?", filter.MovieId)
	}
	if filter.CinemaId > 0 {
		condition = condition.Where("cinema_id = ?", filter.CinemaId)
	}
	timeRanges := func(q *gorm.DB) *gorm.DB { return q.Order("start") }
	if filter.Date != "" {
		day, _ := model.ParseDate(filter.Date)
		from, to := day.DayBounds()
		condition = condition.Where("id IN (?)",
			db.Model(&model.TimeRange{}).Select("session_id").Where("start >= ? AND start < ?", from, to))
		timeRanges = func(q *gorm.DB) *gorm.DB {
			return q.Where("start >= ? AND start < ?", from, to).Order("start")
		}
	}

	var sessions []model.Session
	if err := condition.
		Preload("Movie").
		Preload("Cinema").
		Preload("Room").
		Preload("TimeRanges", timeRanges).
		Order("id DESC").
		Find(&sessions).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, sessions)
}

func GetSessionById(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	var session model.Session
	if err := database.DB.
		Preload("Movie").
		Preload("Cinema").
		Preload("Room").
		Preload("TimeRanges", func(q *gorm.DB) *gorm.DB { return q.Order("start") }).
		First(&session, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_SESSION)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, session)
}

// roomBusy reports whether another time range of the room overlaps [start, end).
func roomBusy(tx *gorm.DB, roomId uint, tr model.TimeRangeInput) (bool, error) {
	var count int64
	err := tx.Model(&model.TimeRange{}).
		Joins("JOIN sessions ON sessions.id = time_ranges.session_id").
		Where(`sessions.room_id = ? AND time_ranges.start < ? AND time_ranges."end" > ?`, roomId, tr.End, tr.Start).
		Count(&count).Error
	return count > 0, err
}

// addTimeRange stores one time range of session and seeds its seat statuses.
func addTimeRange(tx *gorm.DB, session *model.Session, in model.TimeRangeInput) (*model.TimeRange, error) {
	tr := model.TimeRange{SessionId: session.ID, Start: in.Start, End: in.End}
	if err := tx.Create(&tr).Error; err != nil {
		return nil, err
	}
	if err := helper.SeedSeatStatuses(tx, tr.ID, session.RoomId); err != nil {
		return nil, err
	}
	return &tr, nil
}

func CreateSession(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateSession").(model.CreateSessionInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var movie model.Movie
	if err := db.First(&movie, input.MovieId).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_MOVIE)
	}
	var cinema model.Cinema
	if err := db.First(&cinema, input.CinemaId).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_CINEMA)
	}
	var room model.Room
	if err := db.First(&room, input.RoomId).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_ROOM)
	}
	if room.CinemaId != cinema.ID {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.ROOM_NOT_IN_CINEMA, errors.New("room mismatch"), "roomId")
	}

	session := model.Session{
		MovieId:  movie.ID,
		RoomId:   room.ID,
		CinemaId: cinema.ID,
		Price:    input.Price,
		Status:   constants.SESSION_SCHEDULED,
	}

	tx := db.Begin()
	if err := tx.Create(&session).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	for i, in := range input.TimeRanges {
		busy, err := roomBusy(tx, room.ID, in)
		if err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		if busy {
			tx.Rollback()
			return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.TIME_RANGE_OVERLAP,
				fmt.Errorf("time range %d overlaps", i), "timeRanges")
		}
		tr, err := addTimeRange(tx, &session, in)
		if err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
		session.TimeRanges = append(session.TimeRanges, *tr)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, session)
}

func EditSession(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputEditSession").(model.EditSessionInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var session model.Session
	if err := db.First(&session, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_SESSION)
	}
	if input.Price != nil {
		session.Price = *input.Price
	}
	if input.Status != nil {
		session.Status = *input.Status
	}
	if err := db.Save(&session).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, session)
}

func DeleteSession(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var session model.Session
	if err := db.First(&session, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_SESSION)
	}

	tx := db.Begin()
	timeRanges := tx.Model(&model.TimeRange{}).Select("id").Where("session_id = ?", session.ID)
	steps := []func() error{
		func() error { return tx.Where("time_range_id IN (?)", timeRanges).Delete(&model.SeatStatus{}).Error },
		func() error { return tx.Where("session_id = ?", session.ID).Delete(&model.TimeRange{}).Error },
		func() error { return tx.Delete(&session).Error },
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
	return utils.SuccessResponse(c, fiber.StatusOK, session)
}

func CreateTimeRange(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	input, ok := c.Locals("inputTimeRange").(model.TimeRangeInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	db := database.DB
	var session model.Session
	if err := db.First(&session, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_SESSION)
	}

	tx := db.Begin()
	busy, err := roomBusy(tx, session.RoomId, input)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if busy {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.TIME_RANGE_OVERLAP, errors.New("overlap"))
	}
	tr, err := addTimeRange(tx, &session, input)
	if err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if session.Status == constants.SESSION_FINISHED {
		if err := tx.Model(&session).Update("status", constants.SESSION_SCHEDULED).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, tr)
}

func DeleteTimeRange(c *fiber.Ctx) error {
	id := c.Locals("inputId").(model.ID)
	db := database.DB
	var tr model.TimeRange
	if err := db.First(&tr, id.Uint()).Error; err != nil {
		return recordError(c, err, constants.NOT_FOUND_TIME_RANGE)
	}

	tx := db.Begin()
	if err := tx.Where("time_range_id = ?", tr.ID).Delete(&model.SeatStatus{}).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Delete(&tr).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if err := tx.Commit().Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tr)
}
