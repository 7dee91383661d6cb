package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"cinema_reservation/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCatalog implements the relational lookups in memory.
// This is useful for testing and development.
type MemoryCatalog struct {
	mu         sync.RWMutex
	users      map[uint]model.User
	movies     map[uint]model.Movie
	cinemas    map[uint]model.Cinema
	rooms      map[uint]model.Room
	sessions   map[uint]model.Session
	timeRanges map[uint]model.TimeRange
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		users:      make(map[uint]model.User),
		movies:     make(map[uint]model.Movie),
		cinemas:    make(map[uint]model.Cinema),
		rooms:      make(map[uint]model.Room),
		sessions:   make(map[uint]model.Session),
		timeRanges: make(map[uint]model.TimeRange),
	}
}

func put[T any](mu *sync.RWMutex, items map[uint]T, id uint, v T) {
	mu.Lock()
	defer mu.Unlock()
	items[id] = v
}

func get[T any](mu *sync.RWMutex, items map[uint]T, id model.ID) (*T, error) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := items[id.Uint()]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *MemoryCatalog) AddUser(u model.User)           { put(&m.mu, m.users, u.ID, u) }
func (m *MemoryCatalog) AddMovie(v model.Movie)         { put(&m.mu, m.movies, v.ID, v) }
func (m *MemoryCatalog) AddCinema(v model.Cinema)       { put(&m.mu, m.cinemas, v.ID, v) }
func (m *MemoryCatalog) AddRoom(v model.Room)           { put(&m.mu, m.rooms, v.ID, v) }
func (m *MemoryCatalog) AddSession(v model.Session)     { put(&m.mu, m.sessions, v.ID, v) }
func (m *MemoryCatalog) AddTimeRange(v model.TimeRange) { put(&m.mu, m.timeRanges, v.ID, v) }

func (m *MemoryCatalog) RemoveMovie(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.movies, id)
}

func (m *MemoryCatalog) FindUser(_ context.Context, id model.ID) (*model.User, error) {
	return get(&m.mu, m.users, id)
}

func (m *MemoryCatalog) FindMovie(_ context.Context, id model.ID) (*model.Movie, error) {
	return get(&m.mu, m.movies, id)
}

func (m *MemoryCatalog) FindCinema(_ context.Context, id model.ID) (*model.Cinema, error) {
	return get(&m.mu, m.cinemas, id)
}

func (m *MemoryCatalog) FindRoom(_ context.Context, id model.ID) (*model.Room, error) {
	return get(&m.mu, m.rooms, id)
}

func (m *MemoryCatalog) FindSession(_ context.Context, id model.ID) (*model.Session, error) {
	return get(&m.mu, m.sessions, id)
}

func (m *MemoryCatalog) FindTimeRange(_ context.Context, id model.ID) (*model.TimeRange, error) {
	return get(&m.mu, m.timeRanges, id)
}

type seatKey struct {
	seat      uint
	timeRange uint
}

// MemorySeatInventory keeps seat statuses in memory. Seats without a status
// row are available.
type MemorySeatInventory struct {
	mu       sync.Mutex
	seats    map[uint]model.Seat
	statuses map[seatKey]string
	writes   int

	// OnReserve runs before each ReserveSeat check, outside the lock. Tests use
	// it to simulate a concurrent writer.
	OnReserve func(seatId uint, timeRangeId model.ID)
	// FailSet makes SetSeatStatus return the error when set.
	FailSet error
}

func NewMemorySeatInventory() *MemorySeatInventory {
	return &MemorySeatInventory{
		seats:    make(map[uint]model.Seat),
		statuses: make(map[seatKey]string),
	}
}

func (m *MemorySeatInventory) AddSeat(s model.Seat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seats[s.ID] = s
}

// Status returns the current status of a seat for a time range.
func (m *MemorySeatInventory) Status(seatId uint, timeRangeId model.ID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.statuses[seatKey{seatId, timeRangeId.Uint()}]; ok {
		return s
	}
	return "available"
}

// Writes counts successful status writes.
func (m *MemorySeatInventory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemorySeatInventory) BookedSeatIds(_ context.Context, timeRangeId model.ID) (map[uint]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint]bool)
	for k, status := range m.statuses {
		if k.timeRange == timeRangeId.Uint() && status == "booked" {
			out[k.seat] = true
		}
	}
	return out, nil
}

func (m *MemorySeatInventory) FindSeat(_ context.Context, roomId model.ID, number string) (*model.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.seats {
		if s.RoomId == roomId.Uint() && s.Number == number {
			seat := s
			return &seat, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemorySeatInventory) ReserveSeat(_ context.Context, seatId uint, timeRangeId model.ID, status string) error {
	if m.OnReserve != nil {
		m.OnReserve(seatId, timeRangeId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := seatKey{seatId, timeRangeId.Uint()}
	if m.statuses[key] == "booked" {
		return ErrSeatTaken
	}
	m.statuses[key] = status
	m.writes++
	return nil
}

func (m *MemorySeatInventory) SetSeatStatus(_ context.Context, seatId uint, timeRangeId model.ID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.statuses[seatKey{seatId, timeRangeId.Uint()}] = status
	m.writes++
	return nil
}

func cloneBooking(b model.Booking) model.Booking {
	b.SeatsBooked = slices.Clone(b.SeatsBooked)
	return b
}

// MemoryBookingStore keeps booking documents in memory, oldest first.
type MemoryBookingStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]model.Booking
	order []primitive.ObjectID

	// FailWrite makes Insert and Replace return the error when set.
	FailWrite error
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{items: make(map[primitive.ObjectID]model.Booking)}
}

func (m *MemoryBookingStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryBookingStore) Insert(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite != nil {
		return m.FailWrite
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	m.items[b.ID] = cloneBooking(*b)
	m.order = append(m.order, b.ID)
	return nil
}

func (m *MemoryBookingStore) Replace(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrite != nil {
		return m.FailWrite
	}
	if _, ok := m.items[b.ID]; !ok {
		return ErrNotFound
	}
	m.items[b.ID] = cloneBooking(*b)
	return nil
}

func (m *MemoryBookingStore) FindByID(_ context.Context, id string) (*model.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.items[oid]
	if !ok {
		return nil, ErrNotFound
	}
	b = cloneBooking(b)
	return &b, nil
}

func (m *MemoryBookingStore) FindAll(_ context.Context) ([]model.Booking, error) {
	return m.filter(func(model.Booking) bool { return true }), nil
}

func (m *MemoryBookingStore) FindByUser(_ context.Context, userId string) ([]model.Booking, error) {
	return m.filter(func(b model.Booking) bool { return b.UserId == userId }), nil
}

func (m *MemoryBookingStore) filter(keep func(model.Booking) bool) []model.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Booking, 0, len(m.order))
	for _, id := range m.order {
		if b, ok := m.items[id]; ok && keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func (m *MemoryBookingStore) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[oid]; !ok {
		return ErrNotFound
	}
	delete(m.items, oid)
	m.order = slices.DeleteFunc(m.order, func(o primitive.ObjectID) bool { return o == oid })
	return nil
}

func (m *MemoryBookingStore) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.items))
	m.items = make(map[primitive.ObjectID]model.Booking)
	m.order = nil
	return n, nil
}

// MemoryReviewStore keeps reviews in memory.
type MemoryReviewStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]model.Review
}

func NewMemoryReviewStore() *MemoryReviewStore {
	return &MemoryReviewStore{items: make(map[primitive.ObjectID]model.Review)}
}

func (m *MemoryReviewStore) Insert(_ context.Context, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.UserId == r.UserId && existing.MovieId == r.MovieId {
			return ErrDuplicate
		}
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	m.items[r.ID] = *r
	return nil
}

func (m *MemoryReviewStore) Replace(_ context.Context, r *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[r.ID]; !ok {
		return ErrNotFound
	}
	m.items[r.ID] = *r
	return nil
}

func (m *MemoryReviewStore) FindByID(_ context.Context, id string) (*model.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.items[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryReviewStore) FindByUserAndMovie(_ context.Context, userId, movieId string) (*model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.items {
		if r.UserId == userId && r.MovieId == movieId {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryReviewStore) Find(_ context.Context, f model.ReviewFilter) ([]model.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Review, 0)
	for _, r := range m.items {
		if (f.Status == "" || r.Status == f.Status) &&
			(f.MovieId == "" || r.MovieId == f.MovieId) &&
			(f.UserId == "" || r.UserId == f.UserId) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryReviewStore) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[oid]; !ok {
		return ErrNotFound
	}
	delete(m.items, oid)
	return nil
}

// MemoryIncidentStore keeps incidents in memory.
type MemoryIncidentStore struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]model.Incident
}

func NewMemoryIncidentStore() *MemoryIncidentStore {
	return &MemoryIncidentStore{items: make(map[primitive.ObjectID]model.Incident)}
}

func (m *MemoryIncidentStore) Insert(_ context.Context, i *model.Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}
	m.items[i.ID] = *i
	return nil
}

func (m *MemoryIncidentStore) Replace(_ context.Context, i *model.Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[i.ID]; !ok {
		return ErrNotFound
	}
	m.items[i.ID] = *i
	return nil
}

func (m *MemoryIncidentStore) FindByID(_ context.Context, id string) (*model.Incident, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.items[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &i, nil
}

func (m *MemoryIncidentStore) Find(_ context.Context, f model.IncidentFilter) ([]model.Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Incident, 0)
	for _, i := range m.items {
		if (f.CinemaId == "" || i.CinemaId == f.CinemaId) && (f.Status == "" || i.Status == f.Status) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (m *MemoryIncidentStore) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[oid]; !ok {
		return ErrNotFound
	}
	delete(m.items, oid)
	return nil
}
