package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakery/internal/config"
	"bakery/internal/database"
	"bakery/internal/events"
	"bakery/internal/handlers"
	"bakery/internal/models"
	"bakery/internal/repositories"
	"bakery/internal/services"
	"bakery/pkg/kafkabus"
	"bakery/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	breakerMaxFailures = 5
	breakerOpenFor     = 30 * time.Second
)

// newLogger builds a production zap logger, or a development one at debug level.
func newLogger(level string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if atomic.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = atomic
	return cfg.Build()
}

type repositorySet struct {
	customers repositories.CustomerRepository
	products  repositories.ProductRepository
	orders    repositories.OrderRepository
	users     repositories.UserRepository
}

// application is the wired service plus everything that must be released on exit.
type application struct {
	app     *fiber.App
	closers []func() error
}

func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newApplication connects storage, the cart store and the event broker, and
// builds the fiber app on top of them.
func newApplication(cfg *config.Config, log *zap.Logger) (_ *application, err error) {
	a := &application{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()
	checks := make(map[string]handlers.HealthCheck)

	repos, err := a.openRepositories(cfg, log, checks)
	if err != nil {
		return nil, err
	}
	carts, err := a.openCartStore(cfg, log, checks)
	if err != nil {
		return nil, err
	}
	publisher, err := a.openPublisher(cfg, log, checks)
	if err != nil {
		return nil, err
	}
	workflow, err := models.WorkflowByName(cfg.OrderStatusWorkflow)
	if err != nil {
		return nil, err
	}

	orderService := services.NewOrderService(repos.orders, repos.customers, publisher, workflow, log)
	svc := handlers.Services{
		Auth:      services.NewAuthService(repos.users, cfg.JWTSecret, log),
		Customers: services.NewCustomerService(repos.customers, log),
		Products:  services.NewProductService(repos.products, log),
		Carts:     services.NewCartService(carts, repos.products, orderService, log),
		Orders:    orderService,
		Reports:   services.NewReportService(repos.orders, repos.customers),
	}

	a.app = fiber.New(fiber.Config{AppName: "bakery"})
	a.app.Use(logger.New())
	handlers.RegisterRoutes(a.app, svc, log, checks)
	return a, nil
}

func (a *application) openRepositories(cfg *config.Config, log *zap.Logger, checks map[string]handlers.HealthCheck) (*repositorySet, error) {
	if cfg.DBDriver == "memory" {
		log.Warn("using in-memory storage; data is lost on restart")
		return &repositorySet{
			customers: repositories.NewMemoryCustomerRepository(),
			products:  repositories.NewMemoryProductRepository(),
			orders:    repositories.NewMemoryOrderRepository(),
			users:     repositories.NewMemoryUserRepository(),
		}, nil
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { return database.Close(db) })
	checks["database"] = database.Ping(db)
	log.Info("database ready", zap.String("driver", cfg.DBDriver))

	return &repositorySet{
		customers: repositories.NewGORMCustomerRepository(db),
		products:  repositories.NewGORMProductRepository(db),
		orders:    repositories.NewGORMOrderRepository(db),
		users:     repositories.NewGORMUserRepository(db),
	}, nil
}

func (a *application) openCartStore(cfg *config.Config, log *zap.Logger, checks map[string]handlers.HealthCheck) (repositories.CartRepository, error) {
	if cfg.CartStore != "redis" {
		return repositories.NewMemoryCartRepository(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	a.closers = append(a.closers, client.Close)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}
	checks["redis"] = func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	log.Info("redis cart store ready", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CartTTL))
	return repositories.NewRedisCartRepository(client, cfg.CartTTL), nil
}

// openPublisher returns the configured broker behind a circuit breaker. With
// RabbitMQ the production slip consumer is started as well.
func (a *application) openPublisher(cfg *config.Config, log *zap.Logger, checks map[string]handlers.HealthCheck) (events.Publisher, error) {
	switch cfg.EventsDriver {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		if err := client.ConsumeOrderEvents(events.NewSlipLogger(log).Handle); err != nil {
			log.Warn("production slip consumer not started", zap.Error(err))
		}
		return withBreaker("rabbitmq", client, checks), nil
	case "kafka":
		publisher := kafkabus.NewPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		a.closers = append(a.closers, publisher.Close)
		log.Info("kafka publisher ready", zap.String("topic", publisher.Topic()), zap.Strings("brokers", cfg.KafkaBrokers))
		return withBreaker("kafka", publisher, checks), nil
	default:
		return events.Nop{}, nil
	}
}

func withBreaker(name string, next events.Publisher, checks map[string]handlers.HealthCheck) events.Publisher {
	breaker := events.NewBreakerPublisher(name, next, breakerMaxFailures, breakerOpenFor)
	checks["events"] = func(context.Context) error {
		if breaker.State() == gobreaker.StateOpen {
			return fmt.Errorf("%s publisher circuit is open", name)
		}
		return nil
	}
	return breaker
}
