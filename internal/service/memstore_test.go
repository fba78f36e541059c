package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/repository"
)

// memStore keeps cars, availability and bookings in memory. WithCarLock holds
// a per-car mutex for the whole callback, matching the row lock of the
// postgres transaction manager.
type memStore struct {
	mu       sync.Mutex
	carLocks map[int32]*sync.Mutex
	cars     map[int32]*domain.Car
	users    map[int32]*domain.User
	periods  map[int32][]domain.AvailabilityPeriod
	bookings map[int32]*domain.Booking
	nextID   int32
	now      func() time.Time
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		carLocks: map[int32]*sync.Mutex{},
		cars:     map[int32]*domain.Car{},
		users:    map[int32]*domain.User{},
		periods:  map[int32][]domain.AvailabilityPeriod{},
		bookings: map[int32]*domain.Booking{},
		now:      now,
	}
}

func (s *memStore) addCar(c domain.Car) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cars[c.ID] = &c
	s.carLocks[c.ID] = &sync.Mutex{}
}

func (s *memStore) addUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

func (s *memStore) addBooking(b domain.Booking) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	s.bookings[b.ID] = &b
	return b.ID
}

func (s *memStore) booking(id int32) domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookings[id]
}

func (s *memStore) ranges(carID int32) []calendar.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.PeriodRanges(s.periods[carID])
}

func (s *memStore) availabilityRepo() repository.AvailabilityRepository { return memAvailability{s} }
func (s *memStore) bookingRepo() repository.BookingRepository { return memBookings{s} }
func (s *memStore) carRepo() repository.CarRepository { return memCars{s} }
func (s *memStore) userRepo() repository.UserRepository { return memUsers{s} }

func (s *memStore) WithCarLock(ctx context.Context, carID int32, fn func(ctx context.Context, scope repository.CarScope) error) error {
	s.mu.Lock()
	lock, ok := s.carLocks[carID]
	s.mu.Unlock()
	if !ok {
		return domain.ErrCarNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	car := *s.cars[carID]
	s.mu.Unlock()

	return fn(ctx, repository.CarScope{
		Car:          &car,
		Availability: s.availabilityRepo(),
		Bookings:     s.bookingRepo(),
	})
}

type memCars struct{ s *memStore }

func (r memCars) GetByID(_ context.Context, id int32) (*domain.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	cp := *c
	return &cp, nil
}

type memUsers struct{ s *memStore }

func (r memUsers) GetByID(_ context.Context, id int32) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memAvailability struct{ s *memStore }

func (r memAvailability) ListByCar(_ context.Context, carID int32) ([]domain.AvailabilityPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := append([]domain.AvailabilityPeriod{}, r.s.periods[carID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

func (r memAvailability) ReplaceForCar(_ context.Context, carID int32, ranges []calendar.Range) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	periods := make([]domain.AvailabilityPeriod, len(ranges))
	for i, rg := range ranges {
		r.s.nextID++
		periods[i] = domain.AvailabilityPeriod{ID: r.s.nextID, CarID: carID, StartDate: rg.Start, EndDate: rg.End}
	}
	r.s.periods[carID] = periods
	return nil
}

type memBookings struct{ s *memStore }

func (r memBookings) Create(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	b.ID = r.s.nextID
	b.CreatedAt = r.s.now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.s.bookings[b.ID] = &cp
	return nil
}

func (r memBookings) GetByID(_ context.Context, id int32) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r memBookings) UpdateStatus(_ context.Context, id int32, from, to domain.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != from {
		return repository.ErrStatusChanged
	}
	b.Status = to
	return nil
}

func (r memBookings) UpdatePayment(_ context.Context, id int32, status domain.PaymentStatus, method *domain.PaymentMethod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.PaymentStatus = status
	if method != nil {
		b.PaymentMethod = *method
	}
	return nil
}

func (r memBookings) filter(keep func(b *domain.Booking) bool) []domain.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Booking{}
	for _, b := range r.s.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hasStatus(statuses []domain.BookingStatus, s domain.BookingStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (r memBookings) ListOverlapping(_ context.Context, carID int32, rg calendar.Range, statuses []domain.BookingStatus, excludeID int32) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool {
		return b.CarID == carID && hasStatus(statuses, b.Status) && b.ID != excludeID && b.Range().Overlaps(rg)
	}), nil
}

func (r memBookings) ListByClient(_ context.Context, clientID int32, f repository.BookingFilter) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool {
		return b.ClientID == clientID && (f.Status == nil || b.Status == *f.Status)
	}), nil
}

func (r memBookings) ListBySeller(_ context.Context, sellerID int32, f repository.BookingFilter) ([]domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool {
		return r.s.cars[b.CarID].SellerID == sellerID && (f.Status == nil || b.Status == *f.Status)
	}), nil
}

func (r memBookings) ListUpcoming(_ context.Context, userID int32, from calendar.Date, limit int) ([]domain.Booking, error) {
	out := r.filter(func(b *domain.Booking) bool {
		participant := b.ClientID == userID || r.s.cars[b.CarID].SellerID == userID
		return participant && hasStatus(domain.ActiveBookingStatuses, b.Status) && b.StartDate >= from
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memBookings) ExpirePending(_ context.Context, cutoff time.Time) ([]int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int32
	for _, b := range r.s.bookings {
		if b.Status == domain.BookingStatusPending && b.CreatedAt.Before(cutoff) {
			b.Status = domain.BookingStatusExpired
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (r memBookings) CompleteFinished(_ context.Context, day calendar.Date) ([]int32, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []int32
	for _, b := range r.s.bookings {
		if b.Status == domain.BookingStatusConfirmed && b.EndDate < day {
			b.Status = domain.BookingStatusCompleted
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (r memBookings) SellerStats(_ context.Context, sellerID int32) (*domain.SellerBookingStats, error) {
	stats := &domain.SellerBookingStats{}
	for _, b := range r.filter(func(b *domain.Booking) bool { return r.s.cars[b.CarID].SellerID == sellerID }) {
		stats.TotalBookings++
		switch b.Status {
		case domain.BookingStatusConfirmed:
			stats.ConfirmedBookings++
		case domain.BookingStatusCompleted:
			stats.CompletedBookings++
		}
		if (b.Status == domain.BookingStatusConfirmed || b.Status == domain.BookingStatusCompleted) &&
			b.PaymentStatus == domain.PaymentStatusPaid {
			stats.TotalRevenueCents += b.TotalPriceCents
		}
	}
	return stats, nil
}
