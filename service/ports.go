package service

import (
	"context"

	"cinema_reservation/model"
)

// CatalogReader resolves relational entities. Missing rows return
// repository.ErrNotFound.
type CatalogReader interface {
	FindUser(ctx context.Context, id model.ID) (*model.User, error)
	FindMovie(ctx context.Context, id model.ID) (*model.Movie, error)
	FindCinema(ctx context.Context, id model.ID) (*model.Cinema, error)
	FindRoom(ctx context.Context, id model.ID) (*model.Room, error)
	FindSession(ctx context.Context, id model.ID) (*model.Session, error)
	FindTimeRange(ctx context.Context, id model.ID) (*model.TimeRange, error)
}

// SeatInventory owns the per time range seat statuses.
type SeatInventory interface {
	// BookedSeatIds returns the seats currently booked for the time range.
	BookedSeatIds(ctx context.Context, timeRangeId model.ID) (map[uint]bool, error)
	FindSeat(ctx context.Context, roomId model.ID, number string) (*model.Seat, error)
	// ReserveSeat writes status only if the seat is not booked, otherwise it
	// returns repository.ErrSeatTaken.
	ReserveSeat(ctx context.Context, seatId uint, timeRangeId model.ID, status string) error
	// SetSeatStatus writes status unconditionally.
	SetSeatStatus(ctx context.Context, seatId uint, timeRangeId model.ID, status string) error
}

type BookingStore interface {
	Insert(ctx context.Context, b *model.Booking) error
	Replace(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context) ([]model.Booking, error)
	FindByUser(ctx context.Context, userId string) ([]model.Booking, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type ReviewStore interface {
	Insert(ctx context.Context, r *model.Review) error
	Replace(ctx context.Context, r *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByUserAndMovie(ctx context.Context, userId, movieId string) (*model.Review, error)
	Find(ctx context.Context, filter model.ReviewFilter) ([]model.Review, error)
	Delete(ctx context.Context, id string) error
}

type IncidentStore interface {
	Insert(ctx context.Context, i *model.Incident) error
	Replace(ctx context.Context, i *model.Incident) error
	FindByID(ctx context.Context, id string) (*model.Incident, error)
	Find(ctx context.Context, filter model.IncidentFilter) ([]model.Incident, error)
	Delete(ctx context.Context, id string) error
}

// SeatNotifier publishes seat status changes for live seat maps.
type SeatNotifier interface {
	PublishSeatChanges(ctx context.Context, timeRangeId model.ID, changes []model.SeatChange)
}

// Mailer sends a templated mail without blocking the caller.
type Mailer interface {
	Send(to, template string, vars map[string]any)
}

// Actor is the authenticated caller. CanManage is set when the caller holds
// the capability that lifts ownership checks for the operation at hand.
type Actor struct {
	UserId    model.ID
	CanManage bool
}

func (a Actor) owns(userId string) bool {
	return a.CanManage || a.UserId.String() == userId
}
