package usecase

import (
	"context"
	"fmt"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/internal/data/repository"
	"theater-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SeedResult counts the records created by one Seed run.
type SeedResult struct {
	Movies int
	Seats  int
	Users  int
}

type SeedService interface {
	// Seed inserts the sample catalog and accounts. Records that already
	// exist are left alone, so it is safe to run repeatedly.
	Seed(ctx context.Context) (*SeedResult, error)
}

type seedService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewSeedService(repo *repository.Repository, config *utils.Config, log *zap.Logger) SeedService {
	return &seedService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "seed")),
	}
}

var sampleMovies = []entity.Movie{
	{
		Title:       "The Matrix",
		Description: "A computer hacker learns about the true nature of reality.",
		ReleaseDate: time.Date(1999, time.March, 31, 0, 0, 0, 0, time.UTC),
		Duration:    136,
	},
	{
		Title:       "Inception",
		Description: "A thief who steals corporate secrets through dream-sharing technology.",
		ReleaseDate: time.Date(2010, time.July, 16, 0, 0, 0, 0, time.UTC),
		Duration:    148,
	},
}

var sampleSeats = []string{"A1", "A2", "A3", "B1", "B2", "B3"}

type sampleUser struct {
	username string
	email    string
	password string
	role     entity.UserRole
}

func (s *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{}

	if err := s.seedMovies(ctx, result); err != nil {
		return nil, err
	}
	if err := s.seedSeats(ctx, result); err != nil {
		return nil, err
	}

	users := []sampleUser{
		{username: "user", email: "user@example.com", password: "user123", role: entity.RoleCustomer},
	}
	if s.config.Seed.AdminPassword != "" {
		users = append(users, sampleUser{
			username: "admin",
			email:    "admin@example.com",
			password: s.config.Seed.AdminPassword,
			role:     entity.RoleAdmin,
		})
	} else {
		s.log.Warn("SEED_ADMIN_PASSWORD is empty, skipping admin account")
	}

	for _, u := range users {
		if err := s.seedUser(ctx, u, result); err != nil {
			return nil, err
		}
	}

	s.log.Info("Seed completed",
		zap.Int("movies", result.Movies),
		zap.Int("seats", result.Seats),
		zap.Int("users", result.Users),
	)
	return result, nil
}

func (s *seedService) seedMovies(ctx context.Context, result *SeedResult) error {
	existing, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	titles := make(map[string]bool, len(existing))
	for _, m := range existing {
		titles[m.Title] = true
	}

	for _, sample := range sampleMovies {
		if titles[sample.Title] {
			continue
		}
		movie := sample
		if err := s.repo.Movie.Create(ctx, &movie); err != nil {
			return fmt.Errorf("seed movie %q: %w", sample.Title, err)
		}
		result.Movies++
	}
	return nil
}

func (s *seedService) seedSeats(ctx context.Context, result *SeedResult) error {
	existing, err := s.repo.Seat.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("seed seats: %w", err)
	}

	numbers := make(map[string]bool, len(existing))
	for _, seat := range existing {
		numbers[seat.SeatNumber] = true
	}

	for _, number := range sampleSeats {
		if numbers[number] {
			continue
		}
		seat := &entity.Seat{SeatNumber: number, Status: entity.SeatStatusAvailable}
		if err := s.repo.Seat.Create(ctx, seat); err != nil {
			return fmt.Errorf("seed seat %s: %w", number, err)
		}
		result.Seats++
	}
	return nil
}

func (s *seedService) seedUser(ctx context.Context, u sampleUser, result *SeedResult) error {
	existing, err := s.repo.User.FindByUsername(ctx, u.username)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", u.username, err)
	}
	if existing != nil {
		return nil
	}

	hashed, err := utils.HashPassword(u.password)
	if err != nil {
		return fmt.Errorf("seed user %s: %w", u.username, err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     u.username,
		Email:        u.email,
		PasswordHash: hashed,
		Role:         u.role,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return fmt.Errorf("seed user %s: %w", u.username, err)
	}
	result.Users++
	return nil
}
