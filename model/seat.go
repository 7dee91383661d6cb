package model

import "time"

type Seat struct {
	DTO
	Number       string `gorm:"size:10;not null;uniqueIndex:idx_room_seat_number" json:"number"`
	IsAccessible bool   `gorm:"not null;default:false" json:"isAccessible"`
	RoomId       uint   `gorm:"not null;uniqueIndex:idx_room_seat_number" json:"roomId"`
}

// SeatStatus is the availability of one seat for one time range.
type SeatStatus struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SeatId      uint      `gorm:"not null;uniqueIndex:idx_seat_time_range" json:"seatId"`
	TimeRangeId uint      `gorm:"not null;uniqueIndex:idx_seat_time_range;index" json:"timeRangeId"`
	Status      string    `gorm:"size:20;not null;default:available" json:"status"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SeatState is one row of a time range seat map.
type SeatState struct {
	SeatId       uint   `json:"seatId"`
	Number       string `json:"number"`
	IsAccessible bool   `json:"isAccessible"`
	Status       string `json:"status"`
}

// SeatChange is published on a time range channel whenever a seat status changes.
type SeatChange struct {
	SeatId uint   `json:"seatId"`
	Number string `json:"number"`
	Status string `json:"status"`
}

// SeatEvent is the message sent to live seat map clients: a full snapshot on
// connect, then change batches.
type SeatEvent struct {
	Type        string       `json:"type"`
	TimeRangeId string       `json:"timeRangeId"`
	Seats       []SeatState  `json:"seats,omitempty"`
	Changes     []SeatChange `json:"changes,omitempty"`
}

type CreateSeatInput struct {
	RoomId       uint   `json:"roomId" validate:"required"`
	Number       string `json:"number" validate:"required,max=10"`
	IsAccessible bool   `json:"isAccessible"`
}

type EditSeatInput struct {
	Number       *string `json:"number" validate:"omitempty,max=10"`
	IsAccessible *bool   `json:"isAccessible"`
}
