package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"weblog/internal/config"
	"weblog/internal/handlers"
	"weblog/internal/middleware"
	"weblog/internal/models"
	"weblog/internal/repositories"
	"weblog/internal/services"
	"weblog/pkg/rabbitmq"
)

// buildRepositories initializes the backing store selected by the
// configuration and returns the three repositories over it. The store
// connection is opened once here and reused for the process lifetime.
func buildRepositories(cfg *config.Config) (repositories.PostRepository, repositories.CategoryRepository, repositories.UserRepository, error) {
	switch cfg.StorageDriver {
	case "file":
		store := repositories.NewFileStore(cfg.DataDir)
		if err := store.Initialize(); err != nil {
			return nil, nil, nil, err
		}
		// The flat-file mode has no user document store; accounts live in
		// memory for the process lifetime.
		return store, store, repositories.NewMockUserRepository(), nil

	case "sqlite", "postgres":
		var dialector gorm.Dialector
		if cfg.StorageDriver == "sqlite" {
			dialector = sqlite.Open(cfg.SQLitePath)
		} else {
			dialector = postgres.Open(cfg.PostgresDSN())
		}
		db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open %s store: %v: %w", cfg.StorageDriver, err, models.ErrInitialize)
		}
		if err := db.AutoMigrate(&models.Post{}, &models.Category{}, &models.User{}); err != nil {
			return nil, nil, nil, fmt.Errorf("migrate %s store: %v: %w", cfg.StorageDriver, err, models.ErrInitialize)
		}
		return repositories.NewGORMPostRepository(db),
			repositories.NewGORMCategoryRepository(db),
			repositories.NewGORMUserRepository(db),
			nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q: %w", cfg.StorageDriver, models.ErrInitialize)
	}
}

// newApp wires repositories, services, and handlers into a Fiber app.
// mqClient may be nil.
func newApp(cfg *config.Config, mqClient *rabbitmq.Client) (*fiber.App, error) {
	postRepo, categoryRepo, userRepo, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}

	blogService := services.NewBlogService(postRepo, categoryRepo, publisher)
	authService := services.NewAuthService(userRepo, publisher, cfg.JWTSecret)

	blogHandler := handlers.NewBlogHandler(blogService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	app.Use(logger.New())

	// Public routes must be registered before the protected group: the
	// group's middleware is a use-route on the same prefix and matching is
	// positional.
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	blogHandler.RegisterPublicRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	blogHandler.RegisterProtectedRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"storage": cfg.StorageDriver,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	return app, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Messaging is optional; without a broker URL events are simply not
	// published.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		if consumerErr := mqClient.ConsumeBlogEvents(func(msg amqp.Delivery) error {
			log.Printf("Received blog event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}); consumerErr != nil {
			log.Printf("Failed to start blog event consumer: %v", consumerErr)
		}
	}

	app, err := newApp(cfg, mqClient)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	log.Printf("Starting server on %s (storage driver: %s)", cfg.AppPort, cfg.StorageDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
