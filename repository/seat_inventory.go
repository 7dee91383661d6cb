package repository

import (
	"context"
	"errors"
	"time"

	"cinema_reservation/constants"
	"cinema_reservation/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSeatInventory stores seat statuses in the seat_statuses table, one row
// per (seat, time range).
type GormSeatInventory struct {
	db *gorm.DB
}

func NewGormSeatInventory(db *gorm.DB) *GormSeatInventory {
	return &GormSeatInventory{db: db}
}

func (r *GormSeatInventory) BookedSeatIds(ctx context.Context, timeRangeId model.ID) (map[uint]bool, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&model.SeatStatus{}).
		Where("time_range_id = ? AND status = ?", timeRangeId.Uint(), constants.SEAT_BOOKED).
		Pluck("seat_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *GormSeatInventory) FindSeat(ctx context.Context, roomId model.ID, number string) (*model.Seat, error) {
	var seat model.Seat
	if err := r.db.WithContext(ctx).
		Where("room_id = ? AND number = ?", roomId.Uint(), number).
		First(&seat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &seat, nil
}

// ReserveSeat locks the status row and writes status unless the seat is
// booked. A missing row is inserted; losing the insert race to another writer
// counts as taken.
func (r *GormSeatInventory) ReserveSeat(ctx context.Context, seatId uint, timeRangeId model.ID, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.SeatStatus
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("seat_id = ? AND time_range_id = ?", seatId, timeRangeId.Uint()).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.SeatStatus{
				SeatId:      seatId,
				TimeRangeId: timeRangeId.Uint(),
				Status:      status,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrSeatTaken
			}
			return nil
		}
		if err != nil {
			return err
		}
		if row.Status == constants.SEAT_BOOKED {
			return ErrSeatTaken
		}
		return tx.Model(&row).Update("status", status).Error
	})
}

func (r *GormSeatInventory) SetSeatStatus(ctx context.Context, seatId uint, timeRangeId model.ID, status string) error {
	row := model.SeatStatus{SeatId: seatId, TimeRangeId: timeRangeId.Uint(), Status: status}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "seat_id"}, {Name: "time_range_id"}},
		DoUpdates: clause.Assignments(map[string]any{"status": status, "updated_at": time.Now()}),
	}).Create(&row).Error
}
