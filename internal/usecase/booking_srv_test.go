package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"
	"theater-booking/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func book(f *fixture, userID uuid.UUID, movieID, seatID int64) error {
	_, err := f.service.Booking.BookSeat(context.Background(), userID, seatID, &request.BookSeatRequest{MovieID: movieID})
	return err
}

func TestBookSeat_Success(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)
	user := f.store.addUser("userx", entity.RoleCustomer)

	resp, err := f.service.Booking.BookSeat(context.Background(), user.ID, seat.ID, &request.BookSeatRequest{MovieID: movie.ID})
	require.NoError(t, err)

	assert.Equal(t, movie.ID, resp.Movie)
	assert.Equal(t, "Test Movie", resp.MovieTitle)
	assert.Equal(t, seat.ID, resp.Seat)
	assert.Equal(t, "A1", resp.SeatNumber)
	assert.Equal(t, user.ID.String(), resp.User)
	assert.Equal(t, "userx", resp.Username)
	assert.False(t, resp.BookingDate.IsZero())

	assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(seat.ID))
	assert.Equal(t, 1, f.store.countPair(movie.ID, seat.ID))

	events := f.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, resp.ID, events[0].BookingID)
	assert.Equal(t, "A1", events[0].SeatNumber)
}

func TestBookSeat_SecondRequesterGetsConflict(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)
	userX := f.store.addUser("userx", entity.RoleCustomer)
	userY := f.store.addUser("usery", entity.RoleCustomer)

	require.NoError(t, book(f, userX.ID, movie.ID, seat.ID))

	err := book(f, userY.ID, movie.ID, seat.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(seat.ID))
	assert.Equal(t, 1, f.store.countPair(movie.ID, seat.ID))
	assert.Len(t, f.publisher.published(), 1)
}

func TestBookSeat_TwoSeatsSameRequester(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	a1 := f.store.addSeat("A1", entity.SeatStatusAvailable)
	a2 := f.store.addSeat("A2", entity.SeatStatusAvailable)
	user := f.store.addUser("userx", entity.RoleCustomer)

	require.NoError(t, book(f, user.ID, movie.ID, a1.ID))
	require.NoError(t, book(f, user.ID, movie.ID, a2.ID))

	bookings, err := f.service.Booking.GetUserBookings(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	// newest first
	assert.Equal(t, "A2", bookings[0].SeatNumber)
	assert.Equal(t, "A1", bookings[1].SeatNumber)
}

func TestBookSeat_MissingMovie(t *testing.T) {
	f := newFixture(t, nil)
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)
	user := f.store.addUser("userx", entity.RoleCustomer)

	err := book(f, user.ID, 999, seat.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var serviceErr *Error
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "movie", serviceErr.Resource)
	assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(seat.ID))
}

func TestBookSeat_RequesterRemovedBeforeInsert(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)

	// authenticated earlier, no longer in the users table
	err := book(f, uuid.New(), movie.ID, seat.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var serviceErr *Error
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "user", serviceErr.Resource)
	assert.Equal(t, entity.SeatStatusAvailable, f.store.seatStatus(seat.ID))
	assert.Zero(t, f.store.countPair(movie.ID, seat.ID))
}

func TestBookSeat_MissingSeat(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	user := f.store.addUser("userx", entity.RoleCustomer)

	err := book(f, user.ID, movie.ID, 999)
	require.Error(t, err)

	var serviceErr *Error
	require.True(t, errors.As(err, &serviceErr))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "seat", serviceErr.Resource)
}

func TestBookSeat_MaintenanceSeat(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("A1", entity.SeatStatusMaintenance)
	user := f.store.addUser("userx", entity.RoleCustomer)

	err := book(f, user.ID, movie.ID, seat.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, entity.SeatStatusMaintenance, f.store.seatStatus(seat.ID))
	assert.Equal(t, 0, f.store.countPair(movie.ID, seat.ID))
}

func TestBookSeat_Validation(t *testing.T) {
	f := newFixture(t, nil)
	user := f.store.addUser("userx", entity.RoleCustomer)

	tests := []struct {
		name   string
		userID uuid.UUID
		movie  int64
		seat   int64
		field  string
	}{
		{name: "missing requester", userID: uuid.Nil, movie: 1, seat: 1, field: "user"},
		{name: "zero seat", userID: user.ID, movie: 1, seat: 0, field: "seat"},
		{name: "zero movie", userID: user.ID, movie: 0, seat: 1, field: "movie_id"},
		{name: "negative movie", userID: user.ID, movie: -4, seat: 1, field: "movie_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := book(f, tt.userID, tt.movie, tt.seat)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var serviceErr *Error
			require.True(t, errors.As(err, &serviceErr))
			assert.Contains(t, serviceErr.Fields, tt.field)
		})
	}
}

func TestBookSeat_Concurrent(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)

	const requesters = 8
	users := make([]uuid.UUID, requesters)
	for i := range users {
		users[i] = f.store.addUser(fmt.Sprintf("user%d", i), entity.RoleCustomer).ID
	}

	errs := make([]error, requesters)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = book(f, users[i], movie.ID, seat.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrConflict)
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, f.store.countPair(movie.ID, seat.ID))
	assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(seat.ID))
}

func TestBookSeat_SameSeatOtherMovieStaysBooked(t *testing.T) {
	f := newFixture(t, nil)
	first := f.store.addMovie("First")
	second := f.store.addMovie("Second")
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)
	user := f.store.addUser("userx", entity.RoleCustomer)

	require.NoError(t, book(f, user.ID, first.ID, seat.ID))

	// seats are never released, so the booked status blocks every movie
	err := book(f, user.ID, second.ID, seat.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 0, f.store.countPair(second.ID, seat.ID))
}

func TestBookSeat_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t, nil)
	f.publisher.err = errors.New("broker down")
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)
	user := f.store.addUser("userx", entity.RoleCustomer)

	require.NoError(t, book(f, user.ID, movie.ID, seat.ID))
	assert.Equal(t, entity.SeatStatusBooked, f.store.seatStatus(seat.ID))
}

func TestBookSeat_InvalidatesAvailableSeatCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := newFixture(t, cache.New(rdb, "test", 0))
	movie := f.store.addMovie("Test Movie")
	a1 := f.store.addSeat("A1", entity.SeatStatusAvailable)
	f.store.addSeat("A2", entity.SeatStatusAvailable)
	user := f.store.addUser("userx", entity.RoleCustomer)

	ctx := context.Background()
	before, err := f.service.Seat.GetAvailableSeats(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)
	assert.True(t, mr.Exists("test:"+availableSeatsKey))

	require.NoError(t, book(f, user.ID, movie.ID, a1.ID))
	assert.False(t, mr.Exists("test:"+availableSeatsKey))

	after, err := f.service.Seat.GetAvailableSeats(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "A2", after[0].SeatNumber)
}

func TestBookSeat_DuringAvailableSeatLoadKeepsCacheFresh(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	st := newStore()
	movie := st.addMovie("Test Movie")
	a1 := st.addSeat("A1", entity.SeatStatusAvailable)
	st.addSeat("A2", entity.SeatStatusAvailable)
	user := st.addUser("userx", entity.RoleCustomer)

	repo := st.repository()
	seats := newPausingSeatRepo(repo.Seat)
	repo.Seat = seats
	svc := NewService(repo, cache.New(rdb, "test", 0), &recordingPublisher{}, testConfig(), zaptest.NewLogger(t))

	ctx := context.Background()
	type listing struct {
		seats []response.SeatResponse
		err   error
	}
	loaded := make(chan listing, 1)
	go func() {
		list, err := svc.Seat.GetAvailableSeats(ctx)
		loaded <- listing{list, err}
	}()

	<-seats.read
	_, err := svc.Booking.BookSeat(ctx, user.ID, a1.ID, &request.BookSeatRequest{MovieID: movie.ID})
	require.NoError(t, err)
	close(seats.resume)

	first := <-loaded
	require.NoError(t, first.err)
	assert.Len(t, first.seats, 2)
	assert.False(t, mr.Exists("test:"+availableSeatsKey))

	after, err := svc.Seat.GetAvailableSeats(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "A2", after[0].SeatNumber)
	assert.Equal(t, entity.SeatStatusBooked, st.seatStatus(a1.ID))

	// the fresh listing is cached
	assert.True(t, mr.Exists("test:"+availableSeatsKey))
}

func TestGetUserBooking_HidesOtherUsersBookings(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("A1", entity.SeatStatusAvailable)
	owner := f.store.addUser("owner", entity.RoleCustomer)
	other := f.store.addUser("other", entity.RoleCustomer)

	resp, err := f.service.Booking.BookSeat(context.Background(), owner.ID, seat.ID, &request.BookSeatRequest{MovieID: movie.ID})
	require.NoError(t, err)

	got, err := f.service.Booking.GetUserBooking(context.Background(), owner.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)

	_, err = f.service.Booking.GetUserBooking(context.Background(), other.ID, resp.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.service.Booking.RenderTicket(context.Background(), other.ID, resp.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderTicket(t *testing.T) {
	f := newFixture(t, nil)
	movie := f.store.addMovie("Test Movie")
	seat := f.store.addSeat("B2", entity.SeatStatusAvailable)
	user := f.store.addUser("userx", entity.RoleCustomer)

	resp, err := f.service.Booking.BookSeat(context.Background(), user.ID, seat.ID, &request.BookSeatRequest{MovieID: movie.ID})
	require.NoError(t, err)

	file, err := f.service.Booking.RenderTicket(context.Background(), user.ID, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ticket-%d.pdf", resp.ID), file.Filename)
	assert.True(t, len(file.Content) > 4)
	assert.Equal(t, "%PDF", string(file.Content[:4]))
}
