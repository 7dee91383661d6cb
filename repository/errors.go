package repository

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrSeatTaken = errors.New("seat already booked")
	ErrDuplicate = errors.New("duplicate record")
)
