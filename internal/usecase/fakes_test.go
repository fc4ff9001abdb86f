package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/event"
	"theater-booking/pkg/cache"
	"theater-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"
)

// store is an in-memory database. Its mutex plays the role of the seat row
// lock taken by the real Reserve.
type store struct {
	mu       sync.Mutex
	movies   map[int64]*entity.Movie
	seats    map[int64]*entity.Seat
	bookings []*entity.Booking
	users    map[uuid.UUID]*entity.User
	sessions map[uuid.UUID]*entity.Session
	nextID   int64
}

func newStore() *store {
	return &store{
		movies:   make(map[int64]*entity.Movie),
		seats:    make(map[int64]*entity.Seat),
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[uuid.UUID]*entity.Session),
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		User:    &fakeUserRepo{s},
		Session: &fakeSessionRepo{s},
		Movie:   &fakeMovieRepo{s},
		Seat:    &fakeSeatRepo{s},
		Booking: &fakeBookingRepo{s},
	}
}

func (s *store) addMovie(title string) *entity.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &entity.Movie{
		ID:          s.id(),
		Title:       title,
		ReleaseDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Duration:    120,
	}
	s.movies[m.ID] = m
	return m
}

func (s *store) addSeat(number string, status entity.SeatStatus) *entity.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat := &entity.Seat{ID: s.id(), SeatNumber: number, Status: status}
	s.seats[seat.ID] = seat
	return seat
}

func (s *store) addUser(username string, role entity.UserRole) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, _ := utils.HashPassword("secret123")
	u := &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	s.users[u.ID] = u
	return u
}

func (s *store) seatStatus(id int64) entity.SeatStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[id].Status
}

func (s *store) countPair(movieID, seatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.MovieID == movieID && b.SeatID == seatID {
			n++
		}
	}
	return n
}

type fakeMovieRepo struct{ s *store }

func (r *fakeMovieRepo) Create(_ context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	movie.ID = r.s.id()
	cp := *movie
	r.s.movies[movie.ID] = &cp
	return nil
}

func (r *fakeMovieRepo) FindByID(_ context.Context, id int64) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movies[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMovieRepo) FindAll(_ context.Context) ([]*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Movie, 0, len(r.s.movies))
	for _, m := range r.s.movies {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReleaseDate.Equal(out[j].ReleaseDate) {
			return out[i].ReleaseDate.Before(out[j].ReleaseDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMovieRepo) Update(_ context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[movie.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *movie
	r.s.movies[movie.ID] = &cp
	return nil
}

func (r *fakeMovieRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[id]; !ok {
		return repository.ErrNotFound
	}
	for _, b := range r.s.bookings {
		if b.MovieID == id {
			return repository.ErrInUse
		}
	}
	delete(r.s.movies, id)
	return nil
}

type fakeSeatRepo struct{ s *store }

func (r *fakeSeatRepo) Create(_ context.Context, seat *entity.Seat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.seats {
		if existing.SeatNumber == seat.SeatNumber {
			return repository.ErrDuplicate
		}
	}
	if seat.Status == "" {
		seat.Status = entity.SeatStatusAvailable
	}
	seat.ID = r.s.id()
	cp := *seat
	r.s.seats[seat.ID] = &cp
	return nil
}

func (r *fakeSeatRepo) FindByID(_ context.Context, id int64) (*entity.Seat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seat, ok := r.s.seats[id]
	if !ok {
		return nil, nil
	}
	cp := *seat
	return &cp, nil
}

func (r *fakeSeatRepo) FindAll(ctx context.Context) ([]*entity.Seat, error) {
	return r.filter(func(*entity.Seat) bool { return true }), nil
}

func (r *fakeSeatRepo) FindByStatus(_ context.Context, status entity.SeatStatus) ([]*entity.Seat, error) {
	return r.filter(func(s *entity.Seat) bool { return s.Status == status }), nil
}

func (r *fakeSeatRepo) filter(keep func(*entity.Seat) bool) []*entity.Seat {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Seat, 0)
	for _, seat := range r.s.seats {
		if keep(seat) {
			cp := *seat
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out
}

func (r *fakeSeatRepo) UpdateStatus(_ context.Context, id int64, status entity.SeatStatus) (*entity.Seat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seat, ok := r.s.seats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if seat.Status == entity.SeatStatusBooked {
		return nil, repository.ErrSeatUnavailable
	}
	seat.Status = status
	cp := *seat
	return &cp, nil
}

type fakeBookingRepo struct{ s *store }

func (r *fakeBookingRepo) Reserve(_ context.Context, movieID, seatID int64, userID uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seat, ok := r.s.seats[seatID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if seat.Status != entity.SeatStatusAvailable {
		return nil, repository.ErrSeatUnavailable
	}
	if _, ok := r.s.movies[movieID]; !ok {
		return nil, repository.ErrMissingMovie
	}
	if _, ok := r.s.users[userID]; !ok {
		return nil, repository.ErrMissingUser
	}
	for _, b := range r.s.bookings {
		if b.MovieID == movieID && b.SeatID == seatID {
			return nil, repository.ErrDuplicateBooking
		}
	}

	b := &entity.Booking{
		ID:          r.s.id(),
		MovieID:     movieID,
		SeatID:      seatID,
		UserID:      userID,
		BookingDate: time.Now().Add(time.Duration(len(r.s.bookings)) * time.Millisecond),
	}
	r.s.bookings = append(r.s.bookings, b)
	seat.Status = entity.SeatStatusBooked

	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) detail(b *entity.Booking) *entity.BookingDetail {
	d := &entity.BookingDetail{Booking: *b}
	if m, ok := r.s.movies[b.MovieID]; ok {
		d.MovieTitle = m.Title
		d.ReleaseDate = m.ReleaseDate
		d.Duration = m.Duration
	}
	if seat, ok := r.s.seats[b.SeatID]; ok {
		d.SeatNumber = seat.SeatNumber
	}
	if u, ok := r.s.users[b.UserID]; ok {
		d.Username = u.Username
	}
	return d
}

func (r *fakeBookingRepo) FindDetailByID(_ context.Context, id int64) (*entity.BookingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.ID == id {
			return r.detail(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.BookingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.BookingDetail, 0)
	for i := len(r.s.bookings) - 1; i >= 0; i-- {
		if r.s.bookings[i].UserID == userID {
			out = append(out, r.detail(r.s.bookings[i]))
		}
	}
	return out, nil
}

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

type fakeSessionRepo struct{ s *store }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *session
	r.s.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[token]
	if !ok || !session.ActiveAt(time.Now()) {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	session, ok := r.s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	session.RevokedAt = &now
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.BookingCreated
	err    error
}

func (p *recordingPublisher) PublishBookingCreated(_ context.Context, ev event.BookingCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []event.BookingCreated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.BookingCreated(nil), p.events...)
}

func testConfig() *utils.Config {
	return &utils.Config{
		App:  utils.AppConfig{Name: "Theater"},
		JWT:  utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		Seed: utils.SeedConfig{AdminPassword: "admin123"},
	}
}

type fixture struct {
	store     *store
	service   *Service
	publisher *recordingPublisher
}

func newFixture(t *testing.T, seatCache *cache.Cache) *fixture {
	t.Helper()
	st := newStore()
	pub := &recordingPublisher{}
	svc := NewService(st.repository(), seatCache, pub, testConfig(), zaptest.NewLogger(t))
	return &fixture{store: st, service: svc, publisher: pub}
}

// pausingSeatRepo holds the first FindByStatus call after it has read from
// the store until resume is closed.
type pausingSeatRepo struct {
	repository.SeatRepository
	once   sync.Once
	read   chan struct{}
	resume chan struct{}
}

func newPausingSeatRepo(inner repository.SeatRepository) *pausingSeatRepo {
	return &pausingSeatRepo{
		SeatRepository: inner,
		read:           make(chan struct{}),
		resume:         make(chan struct{}),
	}
}

func (r *pausingSeatRepo) FindByStatus(ctx context.Context, status entity.SeatStatus) ([]*entity.Seat, error) {
	seats, err := r.SeatRepository.FindByStatus(ctx, status)
	r.once.Do(func() {
		close(r.read)
		<-r.resume
	})
	return seats, err
}
