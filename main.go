package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"laptopshop/auth"
	"laptopshop/cart"
	"laptopshop/catalog"
	"laptopshop/checkout"
	"laptopshop/condb"
	"laptopshop/config"
	"laptopshop/controllers"
	"laptopshop/events"
	"laptopshop/middleware"
	"laptopshop/models"
	"laptopshop/orders"
	"laptopshop/routes"
	"laptopshop/session"
	"laptopshop/state"
	"laptopshop/upload"
	"laptopshop/utils"
	"laptopshop/wishlist"
)

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxImageBytes)*cfg.MaxImages + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.SessionHeader,
		ExposeHeaders:    "Set-Cookie, " + middleware.SessionHeader,
		AllowCredentials: true,
	}))

	h, closeDB := buildHandler(cfg)
	defer closeDB()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.SessionIdle > 0 {
		go h.Sessions.Run(ctx, sweepInterval(cfg.SessionIdle))
	}

	routes.RegisterRoutes(app, h, h.Tokens)

	log.Fatal(app.Listen(":" + cfg.Port))
}

func sweepInterval(idle time.Duration) time.Duration {
	if every := idle / 4; every > time.Minute {
		return every
	}
	return time.Minute
}

// buildHandler picks Postgres-backed stores when DATABASE_URL is set and
// in-memory ones otherwise.
func buildHandler(cfg config.Config) (*controllers.Handler, func()) {
	tokens := utils.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	sessions := state.NewMemoryStore()

	catalogEvents := events.NewBus[catalog.Event]()
	catalogEvents.Subscribe(func(e catalog.Event) {
		log.Infow("catalog changed", "kind", e.Kind, "id", e.Laptop.ID)
	})
	cartEvents := events.NewBus[cart.Event]()
	cartEvents.Subscribe(func(e cart.Event) {
		log.Debugf("cart %s now has %d lines", e.Key, len(e.Items))
	})
	wishEvents := events.NewBus[wishlist.Event]()
	wishEvents.Subscribe(func(e wishlist.Event) {
		log.Debugf("wishlist %s now has %d items", e.Key, len(e.Items))
	})

	h := &controllers.Handler{
		Uploads:        upload.Limits{MaxImages: cfg.MaxImages, MaxBytes: cfg.MaxImageBytes},
		Tokens:         tokens,
		PaymentTimeout: cfg.PayTimeout,
	}
	var users auth.Users
	closeDB := func() {}

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := condb.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		closeDB = pool.Close

		store := catalog.NewPostgresStore(pool)
		var seeder condb.Seeder
		if cfg.SeedCatalog {
			seeder = store.Seed
		}
		res, err := condb.Init(ctx, pool, catalog.DefaultLaptops(), seeder)
		if err != nil {
			log.Fatalf("database init failed: %v", err)
		}
		log.Infow("database ready", "seeded", res.DefaultLaptopsAdded)

		h.Catalog = catalog.WithEvents(store, catalogEvents)
		h.Wishlists = wishlist.NewPostgresRepo(pool)
		h.Orders = orders.NewPostgresRecorder(pool)
		h.DB = pool
		h.Seed = store.Seed
		users = auth.NewPostgresUsers(pool)
	} else {
		log.Warn("DATABASE_URL is not set, using in-memory stores")
		var seed []models.LaptopInput
		if cfg.SeedCatalog {
			seed = catalog.DefaultLaptops()
		}
		h.Catalog = catalog.WithEvents(catalog.NewMemoryStore(state.NewMemoryStore(), seed), catalogEvents)
		h.Wishlists = wishlist.NewMemoryRepo(h.Catalog)
		h.Orders = orders.NewMemoryRecorder()
		users = auth.NewMemoryUsers()
	}

	h.Auth = auth.NewService(users, sessions, tokens, cfg.AdminPassword)
	h.Sessions = session.NewRegistry(session.Options{
		Store:        sessions,
		Users:        h.Auth,
		Processor:    &checkout.SimulatedProcessor{Delay: cfg.PaymentDelay},
		Orders:       h.Orders,
		ConfirmDelay: cfg.ConfirmDelay,
		CartEvents:   cartEvents,
		WishEvents:   wishEvents,
		IdleTimeout:  cfg.SessionIdle,
	})
	return h, closeDB
}
