package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema_reservation/constants"
	"cinema_reservation/logger"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BookingService reserves seats in the relational store and records the
// booking in the document store. The two stores share no transaction: seats
// are reserved first with a compare-and-set per seat, then the document is
// written, and a failed document write resets the seats it touched.
type BookingService struct {
	catalog  CatalogReader
	seats    SeatInventory
	bookings BookingStore
	notifier SeatNotifier
	mailer   Mailer
	now      func() time.Time
}

func NewBookingService(catalog CatalogReader, seats SeatInventory, bookings BookingStore, notifier SeatNotifier, mailer Mailer) *BookingService {
	return &BookingService{
		catalog:  catalog,
		seats:    seats,
		bookings: bookings,
		notifier: notifier,
		mailer:   mailer,
		now:      time.Now,
	}
}

type bookingRefs struct {
	sessionId   model.ID
	userId      model.ID
	movieId     model.ID
	roomId      model.ID
	cinemaId    model.ID
	timeRangeId model.ID
}

func parseBookingRefs(in model.BookingInput) (bookingRefs, error) {
	var refs bookingRefs
	fields := []struct {
		name string
		text model.IDText
		dst  *model.ID
	}{
		{"sessionId", in.SessionId, &refs.sessionId},
		{"userId", in.UserId, &refs.userId},
		{"movieId", in.MovieId, &refs.movieId},
		{"roomId", in.RoomId, &refs.roomId},
		{"cinemaId", in.CinemaId, &refs.cinemaId},
		{"timeRange.id", in.TimeRange.ID, &refs.timeRangeId},
	}
	for _, f := range fields {
		id, err := f.text.Parse()
		if err != nil {
			return refs, invalid("Invalid "+f.name, err)
		}
		*f.dst = id
	}
	return refs, nil
}

type bookingEntities struct {
	session   *model.Session
	user      *model.User
	movie     *model.Movie
	room      *model.Room
	cinema    *model.Cinema
	timeRange *model.TimeRange
}

func (s *BookingService) loadEntities(ctx context.Context, refs bookingRefs) (*bookingEntities, error) {
	var e bookingEntities
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mustFind(gctx, "Session", refs.sessionId, s.catalog.FindSession, &e.session) })
	g.Go(func() error { return mustFind(gctx, "User", refs.userId, s.catalog.FindUser, &e.user) })
	g.Go(func() error { return mustFind(gctx, "Movie", refs.movieId, s.catalog.FindMovie, &e.movie) })
	g.Go(func() error { return mustFind(gctx, "Room", refs.roomId, s.catalog.FindRoom, &e.room) })
	g.Go(func() error { return mustFind(gctx, "Cinema", refs.cinemaId, s.catalog.FindCinema, &e.cinema) })
	g.Go(func() error { return mustFind(gctx, "Time range", refs.timeRangeId, s.catalog.FindTimeRange, &e.timeRange) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	switch {
	case e.timeRange.SessionId != e.session.ID:
		return nil, invalid("Time range does not belong to session", nil)
	case e.session.MovieId != e.movie.ID:
		return nil, invalid("Movie does not match session", nil)
	case e.session.RoomId != e.room.ID:
		return nil, invalid("Room does not match session", nil)
	case e.session.CinemaId != e.cinema.ID:
		return nil, invalid("Cinema does not match session", nil)
	}
	return &e, nil
}

func mustFind[T any](ctx context.Context, entity string, id model.ID, find func(context.Context, model.ID) (*T, error), dst **T) error {
	v, err := find(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(entity + " not found")
	}
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// findOptional resolves a stored reference for display. Unparsable or missing
// references yield nil without an error.
func findOptional[T any](ctx context.Context, raw string, find func(context.Context, model.ID) (*T, error)) (*T, error) {
	id, err := model.ParseID(raw)
	if err != nil {
		return nil, nil
	}
	v, err := find(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

type seatPlan struct {
	seat   *model.Seat
	status string
	held   bool
}

type seatUndo struct {
	seatId      uint
	timeRangeId model.ID
	status      string
}

// seatJournal remembers every seat write of one request so it can be undone
// and published.
type seatJournal struct {
	undo    []seatUndo
	changes map[model.ID][]model.SeatChange
}

func newSeatJournal() *seatJournal {
	return &seatJournal{changes: make(map[model.ID][]model.SeatChange)}
}

func (j *seatJournal) record(seatId uint, number string, timeRangeId model.ID, previous, next string) {
	j.undo = append(j.undo, seatUndo{seatId: seatId, timeRangeId: timeRangeId, status: previous})
	j.changes[timeRangeId] = append(j.changes[timeRangeId], model.SeatChange{SeatId: seatId, Number: number, Status: next})
}

// CreateOrUpdate creates a booking, or replaces the one named by in.ID. The
// returned flag is true when a new booking was created.
func (s *BookingService) CreateOrUpdate(ctx context.Context, actor Actor, in model.BookingInput) (*model.Booking, bool, error) {
	refs, err := parseBookingRefs(in)
	if err != nil {
		return nil, false, err
	}
	requests, err := model.ParseSeatRequests(in.Seats)
	if err != nil {
		return nil, false, invalid("Invalid seats", err)
	}
	if !actor.owns(refs.userId.String()) {
		return nil, false, forbidden("You can only book for your own account")
	}
	status := in.Status
	switch status {
	case "":
		status = constants.BOOKING_PENDING
	case constants.BOOKING_CANCELLED:
		return nil, false, invalid("Invalid status", errors.New("cancel a booking through its cancel endpoint"))
	}

	var existing *model.Booking
	if in.ID != "" {
		existing, err = s.bookings.FindByID(ctx, in.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, notFound(constants.NOT_FOUND_BOOKING)
		}
		if err != nil {
			return nil, false, err
		}
		if !actor.owns(existing.UserId) {
			return nil, false, forbidden("You can only change your own bookings")
		}
	}

	entities, err := s.loadEntities(ctx, refs)
	if err != nil {
		return nil, false, err
	}
	timeRange, err := bookingTimeRange(refs.timeRangeId, entities.timeRange, in.TimeRange)
	if err != nil {
		return nil, false, err
	}

	// seats this booking already holds on the same time range are not conflicts
	held := make(map[uint]model.BookedSeat)
	if existing != nil && existing.Status != constants.BOOKING_CANCELLED && existing.TimeRange.ID == refs.timeRangeId.String() {
		for _, seat := range existing.SeatsBooked {
			if seat.Status != constants.SEAT_BOOKED {
				continue
			}
			if id, err := model.ParseID(seat.SeatId); err == nil {
				held[id.Uint()] = seat
			}
		}
	}

	booked, err := s.seats.BookedSeatIds(ctx, refs.timeRangeId)
	if err != nil {
		return nil, false, err
	}
	plans := make([]seatPlan, 0, len(requests))
	for _, req := range requests {
		seat, err := s.seats.FindSeat(ctx, refs.roomId, req.Number)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, notFound(fmt.Sprintf("Seat %s not found in room", req.Number))
		}
		if err != nil {
			return nil, false, err
		}
		_, isHeld := held[seat.ID]
		if booked[seat.ID] && !isHeld {
			return nil, false, seatTaken(req.Number)
		}
		plans = append(plans, seatPlan{seat: seat, status: req.Status, held: isHeld})
	}

	journal := newSeatJournal()
	if err := s.applySeats(ctx, refs.timeRangeId, plans, held, existing, journal); err != nil {
		s.compensate(ctx, journal)
		return nil, false, err
	}

	doc := &model.Booking{
		SessionId:   refs.sessionId.String(),
		UserId:      refs.userId.String(),
		MovieId:     refs.movieId.String(),
		RoomId:      refs.roomId.String(),
		CinemaId:    refs.cinemaId.String(),
		SeatsBooked: make([]model.BookedSeat, 0, len(plans)),
		Price:       in.Price,
		Status:      status,
		TimeRange:   timeRange,
		UpdatedAt:   s.now().UTC(),
	}
	if doc.Price == 0 {
		doc.Price = entities.session.Price * float64(len(plans))
	}
	for _, p := range plans {
		doc.SeatsBooked = append(doc.SeatsBooked, model.BookedSeat{
			SeatId:       model.ID(p.seat.ID).String(),
			Number:       p.seat.Number,
			Status:       p.status,
			IsAccessible: p.seat.IsAccessible,
		})
	}

	created := existing == nil
	if created {
		doc.Reference = newReference()
		doc.CreatedAt = doc.UpdatedAt
		err = s.bookings.Insert(ctx, doc)
	} else {
		doc.ID = existing.ID
		doc.Reference = existing.Reference
		doc.CreatedAt = existing.CreatedAt
		err = s.bookings.Replace(ctx, doc)
	}
	if err != nil {
		s.compensate(ctx, journal)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, notFound(constants.NOT_FOUND_BOOKING)
		}
		return nil, false, err
	}

	s.publish(ctx, journal.changes)
	if created {
		s.sendConfirmation(doc, entities)
	}
	return doc, created, nil
}

func (s *BookingService) applySeats(ctx context.Context, timeRangeId model.ID, plans []seatPlan, held map[uint]model.BookedSeat, existing *model.Booking, j *seatJournal) error {
	requested := make(map[uint]bool, len(plans))
	for _, p := range plans {
		requested[p.seat.ID] = true
		if p.held {
			if err := s.seats.SetSeatStatus(ctx, p.seat.ID, timeRangeId, p.status); err != nil {
				return err
			}
			j.record(p.seat.ID, p.seat.Number, timeRangeId, constants.SEAT_BOOKED, p.status)
			continue
		}
		if err := s.seats.ReserveSeat(ctx, p.seat.ID, timeRangeId, p.status); err != nil {
			if errors.Is(err, repository.ErrSeatTaken) {
				return seatTaken(p.seat.Number)
			}
			return err
		}
		j.record(p.seat.ID, p.seat.Number, timeRangeId, constants.SEAT_AVAILABLE, p.status)
	}

	if existing == nil || existing.Status == constants.BOOKING_CANCELLED {
		return nil
	}

	release := func(trId model.ID, seat model.BookedSeat) error {
		id, err := model.ParseID(seat.SeatId)
		if err != nil {
			return nil
		}
		if err := s.seats.SetSeatStatus(ctx, id.Uint(), trId, constants.SEAT_AVAILABLE); err != nil {
			return err
		}
		j.record(id.Uint(), seat.Number, trId, seat.Status, constants.SEAT_AVAILABLE)
		return nil
	}

	if existing.TimeRange.ID == timeRangeId.String() {
		for _, seat := range existing.SeatsBooked {
			id, err := model.ParseID(seat.SeatId)
			if err != nil || requested[id.Uint()] {
				continue
			}
			if _, ok := held[id.Uint()]; !ok {
				continue
			}
			if err := release(timeRangeId, seat); err != nil {
				return err
			}
		}
		return nil
	}

	oldRange, err := model.ParseID(existing.TimeRange.ID)
	if err != nil {
		return nil
	}
	for _, seat := range existing.SeatsBooked {
		if seat.Status != constants.SEAT_BOOKED {
			continue
		}
		if err := release(oldRange, seat); err != nil {
			return err
		}
	}
	return nil
}

// compensate restores every journaled seat to its previous status, newest first.
func (s *BookingService) compensate(ctx context.Context, j *seatJournal) {
	ctx = context.WithoutCancel(ctx)
	for i := len(j.undo) - 1; i >= 0; i-- {
		u := j.undo[i]
		if err := s.seats.SetSeatStatus(ctx, u.seatId, u.timeRangeId, u.status); err != nil {
			logger.Log.Error("seat compensation failed",
				zap.Uint("seatId", u.seatId),
				zap.String("timeRangeId", u.timeRangeId.String()),
				zap.String("status", u.status),
				zap.Error(err))
		}
	}
}

func (s *BookingService) publish(ctx context.Context, changes map[model.ID][]model.SeatChange) {
	if s.notifier == nil {
		return
	}
	for trId, list := range changes {
		s.notifier.PublishSeatChanges(ctx, trId, list)
	}
}

func (s *BookingService) sendConfirmation(b *model.Booking, e *bookingEntities) {
	if s.mailer == nil || e.user.Email == "" {
		return
	}
	numbers := make([]string, 0, len(b.SeatsBooked))
	for _, seat := range b.SeatsBooked {
		numbers = append(numbers, seat.Number)
	}
	s.mailer.Send(e.user.Email, constants.MAIL_BOOKING_CONFIRMATION, map[string]any{
		"Name":      e.user.FullName(),
		"Reference": b.Reference,
		"Movie":     e.movie.Title,
		"Cinema":    e.cinema.Name,
		"Room":      e.room.Name,
		"Seats":     strings.Join(numbers, ", "),
		"Start":     b.TimeRange.Start.Format("2006-01-02 15:04 MST"),
		"Price":     fmt.Sprintf("%.2f", b.Price),
	})
}

func bookingTimeRange(id model.ID, stored *model.TimeRange, in model.BookingTimeRangeInput) (model.BookingTimeRange, error) {
	start, end := stored.Start, stored.End
	if in.Start != nil {
		start = *in.Start
	}
	if in.End != nil {
		end = *in.End
	}
	// the document store keeps millisecond precision
	start = start.UTC().Truncate(time.Millisecond)
	end = end.UTC().Truncate(time.Millisecond)
	if !end.After(start) {
		return model.BookingTimeRange{}, invalid(constants.TIME_RANGE_INVALID, nil)
	}
	return model.BookingTimeRange{ID: id.String(), Start: start, End: end}, nil
}

func seatTaken(number string) *Error {
	return conflict(fmt.Sprintf("Seat %s is already booked for this time range.", number))
}

func newReference() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Get returns one booking with its display fields.
func (s *BookingService) Get(ctx context.Context, actor Actor, id string) (*model.BookingView, error) {
	b, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, *b)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *BookingService) List(ctx context.Context) ([]model.BookingView, error) {
	list, err := s.bookings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, list)
}

func (s *BookingService) ListByUser(ctx context.Context, actor Actor, userId model.ID) ([]model.BookingView, error) {
	if !actor.owns(userId.String()) {
		return nil, forbidden("You can only view your own bookings")
	}
	list, err := s.bookings.FindByUser(ctx, userId.String())
	if err != nil {
		return nil, err
	}
	return s.views(ctx, list)
}

// Cancel resets every seat of the booking to available, then deletes the
// document (hard) or marks it cancelled.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id string, hard bool) (*model.Booking, error) {
	b, err := s.find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	trId, err := model.ParseID(b.TimeRange.ID)
	if err != nil {
		return nil, fmt.Errorf("booking %s: time range id %q: %w", id, b.TimeRange.ID, err)
	}

	// an already cancelled booking no longer owns its seats; a booked row now
	// belongs to someone else and is reset anyway
	var retaken map[uint]bool
	if b.Status == constants.BOOKING_CANCELLED {
		if retaken, err = s.seats.BookedSeatIds(ctx, trId); err != nil {
			return nil, err
		}
	}

	changes := make([]model.SeatChange, 0, len(b.SeatsBooked))
	for _, seat := range b.SeatsBooked {
		seatId, err := model.ParseID(seat.SeatId)
		if err != nil {
			logger.Log.Warn("booking holds an invalid seat id", zap.String("bookingId", id), zap.String("seatId", seat.SeatId))
			continue
		}
		if retaken[seatId.Uint()] {
			logger.Log.Warn("repeated cancel resets a seat booked since",
				zap.String("bookingId", id),
				zap.String("timeRangeId", trId.String()),
				zap.String("seat", seat.Number))
		}
		if err := s.seats.SetSeatStatus(ctx, seatId.Uint(), trId, constants.SEAT_AVAILABLE); err != nil {
			return nil, err
		}
		changes = append(changes, model.SeatChange{SeatId: seatId.Uint(), Number: seat.Number, Status: constants.SEAT_AVAILABLE})
	}

	if hard {
		err = s.bookings.Delete(ctx, id)
	} else {
		b.Status = constants.BOOKING_CANCELLED
		b.UpdatedAt = s.now().UTC()
		err = s.bookings.Replace(ctx, b)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(constants.NOT_FOUND_BOOKING)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[model.ID][]model.SeatChange{trId: changes})
	return b, nil
}

// ResetAll deletes every booking document and returns how many were removed.
func (s *BookingService) ResetAll(ctx context.Context) (int64, error) {
	return s.bookings.DeleteAll(ctx)
}

func (s *BookingService) find(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(constants.NOT_FOUND_BOOKING)
	}
	if err != nil {
		return nil, err
	}
	if !actor.owns(b.UserId) {
		return nil, forbidden("You can only access your own bookings")
	}
	return b, nil
}

func (s *BookingService) view(ctx context.Context, b model.Booking) (model.BookingView, error) {
	v := model.BookingView{
		Booking:      b,
		MovieTitle:   constants.NOT_FOUND_MOVIE,
		CinemaName:   constants.NOT_FOUND_CINEMA,
		SessionPrice: constants.NOT_FOUND_SESSION,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movie, err := findOptional(gctx, b.MovieId, s.catalog.FindMovie)
		if movie != nil {
			v.MovieTitle, v.MovieImage = movie.Title, movie.ImageUrl
		}
		return err
	})
	g.Go(func() error {
		cinema, err := findOptional(gctx, b.CinemaId, s.catalog.FindCinema)
		if cinema != nil {
			v.CinemaName = cinema.Name
		}
		return err
	})
	g.Go(func() error {
		session, err := findOptional(gctx, b.SessionId, s.catalog.FindSession)
		if session != nil {
			v.SessionPrice = fmt.Sprintf("%.2f", session.Price)
		}
		return err
	})
	return v, g.Wait()
}

func (s *BookingService) views(ctx context.Context, list []model.Booking) ([]model.BookingView, error) {
	out := make([]model.BookingView, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range list {
		i := i
		g.Go(func() error {
			v, err := s.view(gctx, list[i])
			out[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
