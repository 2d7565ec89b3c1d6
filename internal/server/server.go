package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"backend-safedrive/internal/auth"
	"backend-safedrive/internal/config"
	"backend-safedrive/internal/kvstore"
	"backend-safedrive/internal/metrics"
	"backend-safedrive/internal/stream"
	"backend-safedrive/internal/tracking"
	"backend-safedrive/internal/trip"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Store   kvstore.Store
	Stream  *stream.Hub
	Source  *tracking.DeviceSource
	Scores  *trip.ScoreBook
	Trips   *trip.Controller
	Journal *trip.Repository
	Metrics *metrics.Metrics
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, store kvstore.Store) (*Server, error) {
	if store == nil {
		store = kvstore.NewMemory()
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Store:   store,
		Stream:  stream.NewHub(redisClient),
		Source:  tracking.NewDeviceSource(locationOptions(cfg)),
		Metrics: metrics.New(),
	}
	s.Scores = trip.NewScoreBook(store, s.Metrics)

	opts := trip.Options{Publisher: s.Stream, Metrics: s.Metrics}
	if db != nil {
		s.Journal = openJournal(db)
		if s.Journal != nil {
			opts.Journal = s.Journal
		}
	}
	s.Trips = trip.NewController(s.Source, s.Scores, opts)

	authSvc, err := auth.NewService(cfg.JWTSecret, cfg.PairingCode, store)
	if err != nil {
		s.Stream.Close()
		return nil, fmt.Errorf("auth service: %w", err)
	}

	registerRoutes(s, authSvc)
	return s, nil
}

func registerRoutes(s *Server, authSvc *auth.Service) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "trip_active": s.Trips.Active()})
	})
	s.App.Get("/metrics", s.Metrics.Handler())

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	var history trip.History
	if s.Journal != nil {
		history = s.Journal
	}

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)
	tracking.RegisterRoutes(s.App.Group("/tracking"), s.Source, jwtMiddleware)
	trip.RegisterRoutes(s.App.Group("/trips"), s.Trips, s.Scores, history, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

// Shutdown finishes a running trip so its score is kept, then releases the
// hub and the score store. The HTTP listener is stopped by the caller.
func (s *Server) Shutdown(ctx context.Context) {
	if summary, ok := s.Trips.Stop(ctx); ok {
		log.Printf("[server] finished trip %s on shutdown (score %d)", summary.TripID, summary.Score)
	}
	s.Stream.Close()
	if closer, ok := s.Store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("[server] close store: %v", err)
		}
	}
}

func openJournal(db *pgxpool.Pool) *trip.Repository {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo := trip.NewRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Printf("[server] trip journal disabled: %v", err)
		return nil
	}
	return repo
}

func locationOptions(cfg config.Config) tracking.Options {
	opts := tracking.DefaultOptions()
	if cfg.LocationIntervalMs > 0 {
		opts.TimeIntervalMs = cfg.LocationIntervalMs
	}
	if cfg.LocationDistanceM > 0 {
		opts.DistanceIntervalM = cfg.LocationDistanceM
	}
	return opts
}
