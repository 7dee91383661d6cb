package helper

import (
	"errors"
	"fmt"
	"strings"

	"cinema_reservation/constants"
	"cinema_reservation/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeatLabels expands rows "ABC" and 2 columns into A1 A2 B1 B2 C1 C2.
func SeatLabels(rows string, columns int) []string {
	rows = strings.ToUpper(rows)
	labels := make([]string, 0, len(rows)*columns)
	for _, row := range rows {
		for col := 1; col <= columns; col++ {
			labels = append(labels, fmt.Sprintf("%c%d", row, col))
		}
	}
	return labels
}

// CreateRoomSeats inserts the grid of seats for a new room.
func CreateRoomSeats(tx *gorm.DB, roomId uint, rows string, columns int) ([]model.Seat, error) {
	labels := SeatLabels(rows, columns)
	if len(labels) == 0 {
		return nil, nil
	}
	seats := make([]model.Seat, 0, len(labels))
	for _, label := range labels {
		seats = append(seats, model.Seat{Number: label, RoomId: roomId})
	}
	if err := tx.Create(&seats).Error; err != nil {
		return nil, err
	}
	return seats, nil
}

// SeedSeatStatuses creates one available status per room seat for a new
// time range. Existing rows are left alone.
func SeedSeatStatuses(tx *gorm.DB, timeRangeId uint, roomId uint) error {
	var seats []model.Seat
	if err := tx.Where("room_id = ?", roomId).Find(&seats).Error; err != nil {
		return err
	}
	if len(seats) == 0 {
		return errors.New("room has no seats")
	}

	statuses := make([]model.SeatStatus, 0, len(seats))
	for _, seat := range seats {
		statuses = append(statuses, model.SeatStatus{
			SeatId:      seat.ID,
			TimeRangeId: timeRangeId,
			Status:      constants.SEAT_AVAILABLE,
		})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&statuses).Error
}

// LoadSeatMap returns every seat of the room with its status for the time
// range. Seats without a status row count as available.
func LoadSeatMap(db *gorm.DB, timeRangeId uint, roomId uint) ([]model.SeatState, error) {
	seats := []model.SeatState{}
	err := db.Table("seats").
		Select("seats.id AS seat_id, seats.number, seats.is_accessible, COALESCE(seat_statuses.status, ?) AS status", constants.SEAT_AVAILABLE).
		Joins("LEFT JOIN seat_statuses ON seat_statuses.seat_id = seats.id AND seat_statuses.time_range_id = ?", timeRangeId).
		Where("seats.room_id = ?", roomId).
		Order("seats.id").
		Scan(&seats).Error
	return seats, err
}

// LoadTimeRangeSeatMap resolves the room of the time range and loads its
// seat map.
func LoadTimeRangeSeatMap(db *gorm.DB, timeRangeId uint) ([]model.SeatState, error) {
	var tr model.TimeRange
	if err := db.First(&tr, timeRangeId).Error; err != nil {
		return nil, err
	}
	var session model.Session
	if err := db.First(&session, tr.SessionId).Error; err != nil {
		return nil, err
	}
	return LoadSeatMap(db, tr.ID, session.RoomId)
}
