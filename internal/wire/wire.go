package wire

import (
	"net/http"
	"time"

	"theater-booking/internal/adaptor"
	"theater-booking/internal/data/repository"
	"theater-booking/internal/event"
	"theater-booking/internal/usecase"
	"theater-booking/pkg/cache"
	"theater-booking/pkg/middleware"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the wired router and services.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes. rdb may be nil to run
// without the seat cache and the rate limiter.
func Wiring(
	repo *repository.Repository,
	rdb *redis.Client,
	publisher event.Publisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	seatCache := cache.New(rdb, config.App.Name, config.Redis.CacheTTL)
	service := usecase.NewService(repo, seatCache, publisher, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, rdb, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	rdb *redis.Client,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireAuth(r, handler.Auth, repo, config, logger)
	wireMovie(r, handler.Movie, repo, config, logger)
	wireSeat(r, handler.Seat, repo, config, logger)
	wireBooking(r, handler.Booking, repo, rdb, config, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{
			"time": time.Now().UTC().Format(time.RFC3339),
		})
	})

	return r
}
