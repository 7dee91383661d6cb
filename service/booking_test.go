package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"cinema_reservation/constants"
	"cinema_reservation/logger"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var (
	rangeStart = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	rangeEnd   = rangeStart.Add(2 * time.Hour)

	customer = Actor{UserId: 1}
	manager  = Actor{UserId: 2, CanManage: true}
)

type recordingNotifier struct {
	mu     sync.Mutex
	events map[model.ID][]model.SeatChange
}

func (n *recordingNotifier) PublishSeatChanges(_ context.Context, id model.ID, changes []model.SeatChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = make(map[model.ID][]model.SeatChange)
	}
	n.events[id] = append(n.events[id], changes...)
}

type sentMail struct {
	to       string
	template string
	vars     map[string]any
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(to, template string, vars map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, template: template, vars: vars})
}

type bookingFixture struct {
	catalog  *repository.MemoryCatalog
	seats    *repository.MemorySeatInventory
	bookings *repository.MemoryBookingStore
	notifier *recordingNotifier
	mailer   *recordingMailer
	svc      *BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := &bookingFixture{
		catalog:  repository.NewMemoryCatalog(),
		seats:    repository.NewMemorySeatInventory(),
		bookings: repository.NewMemoryBookingStore(),
		notifier: &recordingNotifier{},
		mailer:   &recordingMailer{},
	}
	f.catalog.AddUser(model.User{DTO: model.DTO{ID: 1}, FirstName: "Ana", Email: "ana@example.com", Role: constants.ROLE_CUSTOMER})
	f.catalog.AddUser(model.User{DTO: model.DTO{ID: 2}, FirstName: "Bo", Email: "bo@example.com", Role: constants.ROLE_EMPLOYEE})
	f.catalog.AddMovie(model.Movie{DTO: model.DTO{ID: 3}, Title: "Alien", ImageUrl: "https://img/alien.jpg"})
	f.catalog.AddCinema(model.Cinema{DTO: model.DTO{ID: 4}, Name: "Downtown"})
	f.catalog.AddRoom(model.Room{DTO: model.DTO{ID: 5}, Name: "Room 1", CinemaId: 4})
	f.catalog.AddSession(model.Session{DTO: model.DTO{ID: 10}, MovieId: 3, RoomId: 5, CinemaId: 4, Price: 9.5})
	f.catalog.AddTimeRange(model.TimeRange{DTO: model.DTO{ID: 19}, SessionId: 10, Start: rangeStart, End: rangeEnd})
	f.catalog.AddTimeRange(model.TimeRange{DTO: model.DTO{ID: 20}, SessionId: 10, Start: rangeEnd, End: rangeEnd.Add(2 * time.Hour)})
	f.catalog.AddTimeRange(model.TimeRange{DTO: model.DTO{ID: 21}, SessionId: 99, Start: rangeStart, End: rangeEnd})
	f.seats.AddSeat(model.Seat{DTO: model.DTO{ID: 101}, Number: "A1", RoomId: 5})
	f.seats.AddSeat(model.Seat{DTO: model.DTO{ID: 102}, Number: "A2", RoomId: 5, IsAccessible: true})
	f.seats.AddSeat(model.Seat{DTO: model.DTO{ID: 103}, Number: "A3", RoomId: 5})
	f.seats.AddSeat(model.Seat{DTO: model.DTO{ID: 201}, Number: "Z9", RoomId: 6})
	f.svc = NewBookingService(f.catalog, f.seats, f.bookings, f.notifier, f.mailer)
	return f
}

func bookingInput(seats string) model.BookingInput {
	return model.BookingInput{
		SessionId: "10",
		UserId:    "1",
		MovieId:   "3",
		RoomId:    "5",
		CinemaId:  "4",
		Seats:     json.RawMessage(seats),
		Price:     19,
		TimeRange: model.BookingTimeRangeInput{ID: "19"},
	}
}

func requireKind(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, message, se.Message)
}

func TestCreateBookingReservesSeats(t *testing.T) {
	f := newBookingFixture(t)

	b, created, err := f.svc.CreateOrUpdate(context.Background(), customer, bookingInput(`["A1","A2"]`))
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, b.ID.IsZero())
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, constants.BOOKING_PENDING, b.Status)
	assert.Equal(t, []model.BookedSeat{
		{SeatId: "101", Number: "A1", Status: "booked"},
		{SeatId: "102", Number: "A2", Status: "booked", IsAccessible: true},
	}, b.SeatsBooked)
	assert.Equal(t, "booked", f.seats.Status(101, 19))
	assert.Equal(t, "booked", f.seats.Status(102, 19))
	assert.Equal(t, "available", f.seats.Status(103, 19))

	assert.Len(t, f.notifier.events[19], 2)
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ana@example.com", f.mailer.sent[0].to)
	assert.Equal(t, constants.MAIL_BOOKING_CONFIRMATION, f.mailer.sent[0].template)
	assert.Equal(t, "A1, A2", f.mailer.sent[0].vars["Seats"])
}

func TestCreateBookingHonoursRequestedSeatStatus(t *testing.T) {
	f := newBookingFixture(t)

	b, _, err := f.svc.CreateOrUpdate(context.Background(), customer, bookingInput(`[{"number":"A1","status":"available"},"A2"]`))
	require.NoError(t, err)
	assert.Equal(t, "available", b.SeatsBooked[0].Status)
	assert.Equal(t, "booked", b.SeatsBooked[1].Status)
	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Equal(t, "booked", f.seats.Status(102, 19))
}

func TestCreateBookingRejectsBookedSeat(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1","A2"]`))
	require.NoError(t, err)
	writes := f.seats.Writes()

	_, _, err = f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	requireKind(t, err, ErrConflict, "Seat A1 is already booked for this time range.")
	assert.Equal(t, writes, f.seats.Writes())
}

func TestCreateBookingConflictWritesNothing(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	require.NoError(t, f.seats.SetSeatStatus(ctx, 102, 19, "booked"))

	_, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1","A2"]`))
	requireKind(t, err, ErrConflict, "Seat A2 is already booked for this time range.")
	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Empty(t, f.notifier.events)
}

func TestCreateBookingValidatesBeforeStoreAccess(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	in := bookingInput(`["A1"]`)
	in.SessionId = "ten"
	_, _, err := f.svc.CreateOrUpdate(ctx, customer, in)
	requireKind(t, err, ErrValidation, "Invalid sessionId")

	in = bookingInput(`["A1"]`)
	in.TimeRange.ID = "0"
	_, _, err = f.svc.CreateOrUpdate(ctx, customer, in)
	requireKind(t, err, ErrValidation, "Invalid timeRange.id")

	_, _, err = f.svc.CreateOrUpdate(ctx, customer, bookingInput(`"A1"`))
	requireKind(t, err, ErrValidation, "Invalid seats")

	assert.Zero(t, f.seats.Writes())
}

func TestCreateBookingMissingEntity(t *testing.T) {
	f := newBookingFixture(t)

	in := bookingInput(`["A1"]`)
	in.SessionId = "77"
	_, _, err := f.svc.CreateOrUpdate(context.Background(), customer, in)
	requireKind(t, err, ErrNotFound, "Session not found")

	in = bookingInput(`["A1"]`)
	in.CinemaId = "44"
	_, _, err = f.svc.CreateOrUpdate(context.Background(), customer, in)
	requireKind(t, err, ErrNotFound, "Cinema not found")
}

func TestCreateBookingTimeRangeMustBelongToSession(t *testing.T) {
	f := newBookingFixture(t)

	in := bookingInput(`["A1"]`)
	in.TimeRange.ID = "21"
	_, _, err := f.svc.CreateOrUpdate(context.Background(), customer, in)
	requireKind(t, err, ErrValidation, "Time range does not belong to session")
}

func TestCreateBookingSeatNotInRoom(t *testing.T) {
	f := newBookingFixture(t)

	_, _, err := f.svc.CreateOrUpdate(context.Background(), customer, bookingInput(`["A1","Z9"]`))
	requireKind(t, err, ErrNotFound, "Seat Z9 not found in room")
	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Zero(t, f.bookings.Count())
}

func TestCreateBookingConcurrentWriterIsCompensated(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	// another request books A2 between the read check and the write
	var once sync.Once
	f.seats.OnReserve = func(seatId uint, trId model.ID) {
		if seatId == 102 {
			once.Do(func() { _ = f.seats.SetSeatStatus(ctx, 102, trId, "booked") })
		}
	}

	_, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1","A2"]`))
	requireKind(t, err, ErrConflict, "Seat A2 is already booked for this time range.")
	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Equal(t, "booked", f.seats.Status(102, 19))
	assert.Zero(t, f.bookings.Count())
}

func TestCreateBookingDocumentFailureReleasesSeats(t *testing.T) {
	f := newBookingFixture(t)
	f.bookings.FailWrite = errors.New("document store unavailable")

	_, _, err := f.svc.CreateOrUpdate(context.Background(), customer, bookingInput(`["A1","A2"]`))
	require.EqualError(t, err, "document store unavailable")
	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Equal(t, "available", f.seats.Status(102, 19))
	assert.Empty(t, f.notifier.events)
	assert.Empty(t, f.mailer.sent)
}

func TestUpdateBookingKeepsOwnSeatsAndReleasesDropped(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1","A2"]`))
	require.NoError(t, err)

	in := bookingInput(`["A2","A3"]`)
	in.ID = b.ID.Hex()
	updated, created, err := f.svc.CreateOrUpdate(ctx, customer, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, b.ID, updated.ID)
	assert.Equal(t, b.Reference, updated.Reference)
	require.Len(t, updated.SeatsBooked, 2)
	assert.Equal(t, "A2", updated.SeatsBooked[0].Number)
	assert.Equal(t, "A3", updated.SeatsBooked[1].Number)

	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Equal(t, "booked", f.seats.Status(102, 19))
	assert.Equal(t, "booked", f.seats.Status(103, 19))
	assert.Len(t, f.mailer.sent, 1)
}

func TestUpdateBookingMovesTimeRange(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	require.NoError(t, err)

	in := bookingInput(`["A1"]`)
	in.ID = b.ID.Hex()
	in.TimeRange.ID = "20"
	updated, _, err := f.svc.CreateOrUpdate(ctx, customer, in)
	require.NoError(t, err)
	assert.Equal(t, "20", updated.TimeRange.ID)
	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Equal(t, "booked", f.seats.Status(101, 20))
}

func TestUpdateUnknownBooking(t *testing.T) {
	f := newBookingFixture(t)

	in := bookingInput(`["A1"]`)
	in.ID = "000000000000000000000000"
	_, _, err := f.svc.CreateOrUpdate(context.Background(), customer, in)
	requireKind(t, err, ErrNotFound, "Booking not found")
}

func TestTimeRangeRoundTrip(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	loc := time.FixedZone("CEST", 2*3600)
	start := rangeStart.In(loc)
	end := rangeEnd.In(loc)
	in := bookingInput(`["A1"]`)
	in.TimeRange.Start = &start
	in.TimeRange.End = &end

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, in)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, customer, b.ID.Hex())
	require.NoError(t, err)
	assert.True(t, got.TimeRange.Start.Equal(start))
	assert.True(t, got.TimeRange.End.Equal(end))
	assert.Equal(t, time.UTC, got.TimeRange.Start.Location())
}

func TestCreateBookingRejectsInvertedTimeRange(t *testing.T) {
	f := newBookingFixture(t)

	in := bookingInput(`["A1"]`)
	in.TimeRange.Start = &rangeEnd
	in.TimeRange.End = &rangeStart
	_, _, err := f.svc.CreateOrUpdate(context.Background(), customer, in)
	requireKind(t, err, ErrValidation, constants.TIME_RANGE_INVALID)
}

func TestSoftCancelReleasesSeatsAndKeepsDocument(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1","A2"]`))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, customer, b.ID.Hex(), false)
	require.NoError(t, err)
	assert.Equal(t, constants.BOOKING_CANCELLED, cancelled.Status)
	assert.Equal(t, "available", f.seats.Status(101, 19))
	assert.Equal(t, "available", f.seats.Status(102, 19))

	got, err := f.svc.Get(ctx, customer, b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, constants.BOOKING_CANCELLED, got.Status)

	// repeating the soft cancel resets the same seats again
	writes := f.seats.Writes()
	_, err = f.svc.Cancel(ctx, customer, b.ID.Hex(), false)
	require.NoError(t, err)
	assert.Equal(t, writes+2, f.seats.Writes())
}

func TestHardCancelRemovesDocument(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, customer, b.ID.Hex(), true)
	require.NoError(t, err)
	assert.Equal(t, "available", f.seats.Status(101, 19))

	_, err = f.svc.Get(ctx, customer, b.ID.Hex())
	requireKind(t, err, ErrNotFound, "Booking not found")
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.Cancel(context.Background(), manager, "not-an-object-id", true)
	requireKind(t, err, ErrNotFound, "Booking not found")
}

func TestCustomerCannotTouchOtherBookings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	in := bookingInput(`["A1"]`)
	in.UserId = "2"
	_, _, err := f.svc.CreateOrUpdate(ctx, customer, in)
	assert.ErrorIs(t, err, ErrForbidden)

	b, _, err := f.svc.CreateOrUpdate(ctx, manager, in)
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, customer, b.ID.Hex())
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Cancel(ctx, customer, b.ID.Hex(), true)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.ListByUser(ctx, customer, 2)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "booked", f.seats.Status(101, 19))
}

func TestBookingViewDegradesMissingEntities(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	require.NoError(t, err)

	v, err := f.svc.Get(ctx, customer, b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Alien", v.MovieTitle)
	assert.Equal(t, "Downtown", v.CinemaName)
	assert.Equal(t, "9.50", v.SessionPrice)

	f.catalog.RemoveMovie(3)
	v, err = f.svc.Get(ctx, customer, b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Movie not found", v.MovieTitle)
	assert.Empty(t, v.MovieImage)
	assert.Equal(t, "Downtown", v.CinemaName)
}

func TestListAndResetAll(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	require.NoError(t, err)
	_, _, err = f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A2"]`))
	require.NoError(t, err)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	mine, err := f.svc.ListByUser(ctx, customer, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	n, err := f.svc.ResetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err = f.svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDefaultPriceFromSession(t *testing.T) {
	f := newBookingFixture(t)

	in := bookingInput(`["A1","A2"]`)
	in.Price = 0
	b, _, err := f.svc.CreateOrUpdate(context.Background(), customer, in)
	require.NoError(t, err)
	assert.Equal(t, 19.0, b.Price)
}

func TestUpdateCannotCancelBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	require.NoError(t, err)

	in := bookingInput(`["A1"]`)
	in.ID = b.ID.Hex()
	in.Status = constants.BOOKING_CANCELLED
	_, _, err = f.svc.CreateOrUpdate(ctx, customer, in)
	requireKind(t, err, ErrValidation, "Invalid status")

	got, err := f.bookings.FindByID(ctx, b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, constants.BOOKING_PENDING, got.Status)

	// the booking still owns A1, so a later update keeps it
	in.Status = constants.BOOKING_PENDING
	_, created, err := f.svc.CreateOrUpdate(ctx, customer, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "booked", f.seats.Status(101, 19))
}

func TestUpdateReactivatesCancelledBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, customer, b.ID.Hex(), false)
	require.NoError(t, err)
	require.Equal(t, "available", f.seats.Status(101, 19))

	in := bookingInput(`["A1"]`)
	in.ID = b.ID.Hex()
	updated, created, err := f.svc.CreateOrUpdate(ctx, customer, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, constants.BOOKING_PENDING, updated.Status)
	assert.Equal(t, "booked", f.seats.Status(101, 19))
}

func TestRepeatedCancelWarnsAboutRetakenSeat(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	previous := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = previous })

	f := newBookingFixture(t)
	ctx := context.Background()

	b, _, err := f.svc.CreateOrUpdate(ctx, customer, bookingInput(`["A1"]`))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, customer, b.ID.Hex(), false)
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("repeated cancel resets a seat booked since").Len())

	other := bookingInput(`["A1"]`)
	other.UserId = "2"
	_, _, err = f.svc.CreateOrUpdate(ctx, manager, other)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, customer, b.ID.Hex(), false)
	require.NoError(t, err)
	entries := logs.FilterMessage("repeated cancel resets a seat booked since").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "A1", entries[0].ContextMap()["seat"])
}
