package model

type Room struct {
	DTO
	Name     string  `gorm:"size:100;not null" json:"name"`
	Number   int     `json:"number"`
	Capacity int     `json:"capacity"`
	CinemaId uint    `gorm:"index;not null" json:"cinemaId"`
	Cinema   *Cinema `gorm:"foreignKey:CinemaId" json:"cinema,omitempty"`
	Seats    []Seat  `gorm:"foreignKey:RoomId;constraint:OnDelete:CASCADE" json:"seats,omitempty"`
}

// CreateRoomInput optionally generates a seat grid: Rows lists row letters
// ("ABCDE") and Columns the seats per row.
type CreateRoomInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Number   int    `json:"number" validate:"gte=0"`
	CinemaId uint   `json:"cinemaId" validate:"required"`
	Rows     string `json:"rows" validate:"omitempty,alpha,max=26"`
	Columns  int    `json:"columns" validate:"omitempty,gt=0,lte=50"`
}

type EditRoomInput struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Number *int    `json:"number" validate:"omitempty,gte=0"`
}
