package model

import "time"

type Session struct {
	DTO
	MovieId    uint        `gorm:"index;not null" json:"movieId"`
	Movie      *Movie      `gorm:"foreignKey:MovieId" json:"movie,omitempty"`
	RoomId     uint        `gorm:"index;not null" json:"roomId"`
	Room       *Room       `gorm:"foreignKey:RoomId" json:"room,omitempty"`
	CinemaId   uint        `gorm:"index;not null" json:"cinemaId"`
	Cinema     *Cinema     `gorm:"foreignKey:CinemaId" json:"cinema,omitempty"`
	Price      float64     `gorm:"not null" json:"price"`
	Status     string      `gorm:"size:20;not null;default:scheduled;index" json:"status"`
	TimeRanges []TimeRange `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE" json:"timeRanges,omitempty"`
}

type TimeRange struct {
	DTO
	SessionId uint      `gorm:"index;not null" json:"sessionId"`
	Start     time.Time `gorm:"not null;index" json:"start"`
	End       time.Time `gorm:"not null" json:"end"`
}

type TimeRangeInput struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

// Normalize converts both bounds to UTC and reports whether the range is ordered.
func (t *TimeRangeInput) Normalize() bool {
	t.Start = t.Start.UTC()
	t.End = t.End.UTC()
	return t.End.After(t.Start)
}

type CreateSessionInput struct {
	MovieId    uint             `json:"movieId" validate:"required"`
	RoomId     uint             `json:"roomId" validate:"required"`
	CinemaId   uint             `json:"cinemaId" validate:"required"`
	Price      float64          `json:"price" validate:"gte=0"`
	TimeRanges []TimeRangeInput `json:"timeRanges" validate:"dive"`
}

type EditSessionInput struct {
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	Status *string  `json:"status" validate:"omitempty,oneof=scheduled finished"`
}

type SessionFilter struct {
	MovieId  uint   `query:"movieId"`
	CinemaId uint   `query:"cinemaId"`
	Date     string `query:"date"`
}
