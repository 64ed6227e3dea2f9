package main // Entry point package

import (
	"context" // Context for the background token sweeper
	"log"     // Logging library
	"time"    // Intervals for background jobs

	"github.com/joho/godotenv"                  // Loads .env files in development
	"github.com/labstack/echo/v4"               // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Built-in recover middleware

	"github.com/autorenta/rental-api/internal/config"     // Internal config loader
	"github.com/autorenta/rental-api/internal/database"   // MySQL pool
	"github.com/autorenta/rental-api/internal/handler"    // HTTP handlers
	"github.com/autorenta/rental-api/internal/middleware" // JWT, rate limit, cache middleware
	"github.com/autorenta/rental-api/internal/queue"      // Event consumer
	"github.com/autorenta/rental-api/internal/repository" // DB repositories
	"github.com/autorenta/rental-api/internal/router"     // Route registration
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	addons := repository.NewAddonRepo(db)
	features := repository.NewFeatureRepo(db)
	reservations := repository.NewReservationRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	reviews := repository.NewReviewRepo(db)

	// Handlers.
	health := handler.NewHealth(db)
	auth := handler.NewAuthHandler(cfg, users, tokens)
	catalog := handler.NewCatalogHandler(categories, vehicles, addons, features, reservations, reviews)
	reserva := handler.NewReservationHandler(reservations, vehicles, addons, cfg.QueueURL)
	favorito := handler.NewFavoriteHandler(favorites)
	review := handler.NewReviewHandler(reviews)
	admin := handler.NewAdminHandler(categories, vehicles, addons, features, reservations, cfg.QueueURL)

	e := echo.New() // Create Echo instance
	e.HideBanner = true

	// A panicking handler must not take the process down; recover, log
	// and answer 500.
	e.Use(echomw.Recover())

	// Rate limit everything; cache only the public catalog.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, health)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterPublic(e, catalog, cacheMW)
	router.RegisterCustomer(e, reserva, favorito, review, cfg.JWTSecret)
	router.RegisterAdmin(e, admin, cfg.JWTSecret)

	// Consume confirmation events into logs/reservations.log.  The consumer
	// reconnects forever on its own.
	go func() {
		if err := queue.StartReservationConsumer(cfg.QueueURL); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	// Sweep expired refresh tokens daily.
	go func() {
		for {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if n, err := tokens.DeleteExpired(ctx, time.Now().UTC()); err != nil {
				log.Printf("token sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("token sweep removed %d expired tokens", n)
			}
			cancel()
			time.Sleep(24 * time.Hour)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
