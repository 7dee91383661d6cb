package model

type Cinema struct {
	DTO
	Name    string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Slug    string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Address string `gorm:"size:500" json:"address"`
	City    string `gorm:"size:100;index" json:"city"`
	Phone   string `gorm:"size:30" json:"phone"`
	Rooms   []Room `gorm:"foreignKey:CinemaId;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}

type CreateCinemaInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"max=500"`
	City    string `json:"city" validate:"max=100"`
	Phone   string `json:"phone" validate:"max=30"`
}

type EditCinemaInput struct {
	Name    *string `json:"name" validate:"omitempty,max=255"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	City    *string `json:"city" validate:"omitempty,max=100"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
}
