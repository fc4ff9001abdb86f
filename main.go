package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"theater-booking/cmd"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/event"
	"theater-booking/internal/usecase"
	"theater-booking/internal/wire"
	"theater-booking/pkg/cache"
	"theater-booking/pkg/database"
	"theater-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfigFrom(".env", os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using default production logger.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	if config.Run.Migrate || config.Run.Seed {
		runTasks(ctx, db, repos, config, logger)
		return
	}

	rdb, err := cache.NewRedisClient(ctx, config.Redis)
	if err != nil {
		// cache and rate limiting are optional
		logger.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher event.Publisher = event.NopPublisher{}
	if config.AMQP.URL != "" {
		publisher = event.NewAMQPPublisher(config.AMQP.URL, config.AMQP.Queue, logger)
	}
	defer publisher.Close()

	if config.Run.Consumer && config.AMQP.URL != "" {
		go func() {
			err := event.Consume(ctx, config.AMQP.URL, config.AMQP.Queue, event.LogHandler(logger), logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Booking event consumer stopped", zap.Error(err))
			}
		}()
	}

	app := wire.Wiring(repos, rdb, publisher, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// runTasks handles the --migrate and --seed one-shot flags.
func runTasks(ctx context.Context, db database.PgxIface, repos *repository.Repository, config *utils.Config, logger *zap.Logger) {
	if config.Run.Migrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Migration failed", zap.Error(err))
		}
	}

	if config.Run.Seed {
		// seeding needs neither the seat cache nor the broker
		service := usecase.NewService(repos, nil, event.NopPublisher{}, config, logger)
		result, err := service.Seed.Seed(ctx)
		if err != nil {
			logger.Fatal("Seed failed", zap.Error(err))
		}
		logger.Info("Sample data ready",
			zap.Int("movies_created", result.Movies),
			zap.Int("seats_created", result.Seats),
			zap.Int("users_created", result.Users),
		)
	}
}
