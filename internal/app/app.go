// Package app wires configuration, stores, services and HTTP routes into a
// runnable Fiber application.
package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/seed"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// App is the assembled service.
type App struct {
	Fiber  *fiber.App
	Auth   *services.AuthService
	Orders *services.OrderService
	MQ     *rabbitmq.Client // nil when RABBITMQ_URL is empty

	db *gorm.DB
}

// Options override parts of the wiring, mainly for tests.
type Options struct {
	// Publisher replaces the RabbitMQ client as the order event sink.
	Publisher services.EventPublisher
	// DisableRequestLog turns off the per-request logger middleware.
	DisableRequestLog bool
}

// New builds the application described by cfg.
func New(cfg *config.Config, opts Options) (*App, error) {
	a := &App{}

	productRepo, userRepo, err := a.openStores(cfg)
	if err != nil {
		return nil, err
	}

	publisher := opts.Publisher
	if publisher == nil && cfg.RabbitMQURL != "" {
		a.MQ, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		publisher = a.MQ
	}

	pricing := services.Pricing{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFee:           cfg.ShippingFee,
	}
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(repositories.NewMockCartRepository(), productRepo, pricing)
	a.Orders = services.NewOrderService(repositories.NewMockOrderRepository(), productRepo, cartService, publisher)
	a.Auth = services.NewAuthService(userRepo, cfg.JWTSecret)

	if cfg.SeedData {
		if err := seed.Products(productRepo); err != nil {
			return nil, err
		}
		if err := seed.Users(a.Auth); err != nil {
			return nil, err
		}
	}

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: errorHandler,
	})
	if !opts.DisableRequestLog {
		a.Fiber.Use(logger.New())
	}

	auth := middleware.AuthRequired(a.Auth)
	apiV1 := a.Fiber.Group("/api/v1")
	handlers.NewAuthHandler(a.Auth).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, auth)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1, auth)
	handlers.NewOrderHandler(a.Orders).RegisterRoutes(apiV1, auth)

	a.Fiber.Get("/health", a.handleHealth)
	return a, nil
}

func (a *App) openStores(cfg *config.Config) (repositories.ProductRepository, repositories.UserRepository, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		return repositories.NewMockProductRepository(), repositories.NewMockUserRepository(), nil
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DBDriver, err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	a.db = db
	return repositories.NewGORMProductRepository(db), repositories.NewGORMUserRepository(db), nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "memory",
		"rabbitmq": "disabled",
	}
	if a.db != nil {
		status["database"] = "connected"
		if sqlDB, err := a.db.DB(); err != nil || sqlDB.Ping() != nil {
			status["database"] = "unreachable"
		}
	}
	if a.MQ != nil {
		status["rabbitmq"] = "connected"
	}
	return c.JSON(handlers.Response{Success: true, Data: status})
}

// errorHandler answers errors that escape the handlers, such as unknown
// routes, with the standard envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(handlers.Response{Error: err.Error()})
}

// Close releases the broker connection and the database pool.
func (a *App) Close() error {
	var errs []error
	if a.MQ != nil {
		errs = append(errs, a.MQ.Close())
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
