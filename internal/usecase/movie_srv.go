package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/dto/request"
	"theater-booking/internal/dto/response"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type MovieService interface {
	GetMovies(ctx context.Context) ([]response.MovieResponse, error)
	GetMovieByID(ctx context.Context, movieID int64) (*response.MovieResponse, error)
	GetAvailableSeats(ctx context.Context, movieID int64) ([]response.SeatResponse, error)

	// Admin endpoints
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID int64) error
}

type movieService struct {
	repo  *repository.Repository
	seats SeatService
	log   *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	seats SeatService,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:  repo,
		seats: seats,
		log:   log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}
	return response.MoviesToResponse(movies), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID int64) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// GetAvailableSeats lists the seats open for booking. Seat status is global,
// so the movie is only checked for existence.
func (s *movieService) GetAvailableSeats(ctx context.Context, movieID int64) ([]response.SeatResponse, error) {
	if _, err := s.findMovie(ctx, movieID); err != nil {
		return nil, err
	}
	return s.seats.GetAvailableSeats(ctx)
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create movie validation failed", zap.Error(err))
		return nil, err
	}

	releaseDate, err := time.Parse(dateLayout, req.ReleaseDate)
	if err != nil {
		return nil, invalidField("release_date", "must be a date in YYYY-MM-DD format")
	}

	movie := &entity.Movie{
		Title:       req.Title,
		Description: req.Description,
		ReleaseDate: releaseDate,
		Duration:    req.Duration,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.Int64("movie_id", movie.ID),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID int64, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		movie.Title = *req.Title
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse(dateLayout, *req.ReleaseDate)
		if err != nil {
			return nil, invalidField("release_date", "must be a date in YYYY-MM-DD format")
		}
		movie.ReleaseDate = releaseDate
	}
	if req.Duration != nil {
		movie.Duration = *req.Duration
	}

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("movie", movieID)
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated", zap.Int64("movie_id", movieID))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID int64) error {
	if movieID <= 0 {
		return invalidField("id", "must be greater than 0")
	}

	err := s.repo.Movie.Delete(ctx, movieID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound("movie", movieID)
	case errors.Is(err, repository.ErrInUse):
		return conflict("movie", fmt.Sprintf("movie %d has bookings and cannot be deleted", movieID))
	case err != nil:
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}

func (s *movieService) findMovie(ctx context.Context, movieID int64) (*entity.Movie, error) {
	if movieID <= 0 {
		return nil, invalidField("id", "must be greater than 0")
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie", movieID)
	}
	return movie, nil
}
