package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is stored in the document store. Relational references are kept as
// decimal strings and parsed back with ParseID.
type Booking struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference   string             `bson:"reference" json:"reference"`
	SessionId   string             `bson:"sessionId" json:"sessionId"`
	UserId      string             `bson:"userId" json:"userId"`
	MovieId     string             `bson:"movieId" json:"movieId"`
	RoomId      string             `bson:"roomId" json:"roomId"`
	CinemaId    string             `bson:"cinemaId" json:"cinemaId"`
	SeatsBooked []BookedSeat       `bson:"seatsBooked" json:"seatsBooked"`
	Price       float64            `bson:"price" json:"price"`
	Status      string             `bson:"status" json:"status"`
	TimeRange   BookingTimeRange   `bson:"timeRange" json:"timeRange"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type BookedSeat struct {
	SeatId       string `bson:"seatId" json:"seatId"`
	Number       string `bson:"number" json:"number"`
	Status       string `bson:"status" json:"status"`
	IsAccessible bool   `bson:"isAccessible" json:"isAccessible"`
}

type BookingTimeRange struct {
	ID    string    `bson:"id" json:"id"`
	Start time.Time `bson:"start" json:"start"`
	End   time.Time `bson:"end" json:"end"`
}

// BookingView is a booking joined with display fields from the relational store.
type BookingView struct {
	Booking      `bson:",inline"`
	MovieTitle   string `json:"movieTitle"`
	MovieImage   string `json:"movieImage"`
	CinemaName   string `json:"cinemaName"`
	SessionPrice string `json:"sessionPrice"`
}

type BookingTimeRangeInput struct {
	ID    IDText     `json:"id"`
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// BookingInput is the body of POST and PUT /api/bookings. ID is set on update.
// Cancelling goes through the soft-delete and delete endpoints only.
type BookingInput struct {
	ID        string                `json:"id"`
	SessionId IDText                `json:"sessionId"`
	UserId    IDText                `json:"userId"`
	MovieId   IDText                `json:"movieId"`
	RoomId    IDText                `json:"roomId"`
	CinemaId  IDText                `json:"cinemaId"`
	Seats     json.RawMessage       `json:"seats"`
	Price     float64               `json:"price" validate:"gte=0"`
	Status    string                `json:"status" validate:"omitempty,oneof=pending"`
	TimeRange BookingTimeRangeInput `json:"timeRange"`
}

// SeatRequest is one requested seat with the status it should end up in.
type SeatRequest struct {
	Number string `json:"number"`
	Status string `json:"status"`
}

var ErrSeatsNotArray = errors.New("seats must be an array")

// ParseSeatRequests accepts an array of seat numbers or of {number, status}
// objects. A missing status means booked.
func ParseSeatRequests(raw json.RawMessage) ([]SeatRequest, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrSeatsNotArray
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrSeatsNotArray
	}
	if len(items) == 0 {
		return nil, errors.New("at least one seat is required")
	}

	seen := make(map[string]bool, len(items))
	out := make([]SeatRequest, 0, len(items))
	for _, item := range items {
		var req SeatRequest
		item = bytes.TrimSpace(item)
		switch {
		case len(item) > 0 && item[0] == '"':
			if err := json.Unmarshal(item, &req.Number); err != nil {
				return nil, err
			}
		case len(item) > 0 && item[0] == '{':
			if err := json.Unmarshal(item, &req); err != nil {
				return nil, fmt.Errorf("invalid seat %s", item)
			}
		default:
			return nil, fmt.Errorf("invalid seat %s", item)
		}

		req.Number = strings.TrimSpace(req.Number)
		if req.Number == "" {
			return nil, errors.New("seat number is required")
		}
		if req.Status == "" {
			req.Status = "booked"
		}
		if req.Status != "booked" && req.Status != "available" {
			return nil, fmt.Errorf("invalid status %q for seat %s", req.Status, req.Number)
		}
		if seen[req.Number] {
			return nil, fmt.Errorf("seat %s is listed twice", req.Number)
		}
		seen[req.Number] = true
		out = append(out, req)
	}
	return out, nil
}
