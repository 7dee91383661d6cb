package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Incident struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CinemaId    string             `bson:"cinemaId" json:"cinemaId"`
	RoomId      string             `bson:"roomId" json:"roomId"`
	SeatId      string             `bson:"seatId,omitempty" json:"seatId,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`
	ReportedBy  string             `bson:"reportedBy" json:"reportedBy"`
	ResolvedAt  *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type IncidentView struct {
	Incident   `bson:",inline"`
	CinemaName string `json:"cinemaName"`
	RoomName   string `json:"roomName"`
}

type CreateIncidentInput struct {
	CinemaId    IDText `json:"cinemaId"`
	RoomId      IDText `json:"roomId"`
	SeatId      IDText `json:"seatId"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
}

type EditIncidentInput struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	Status      *string `json:"status" validate:"omitempty,oneof=open in_progress resolved"`
}

type IncidentFilter struct {
	CinemaId string `query:"cinemaId"`
	Status   string `query:"status"`
}
