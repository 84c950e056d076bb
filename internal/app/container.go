package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/temposched/tempo/internal/scheduling/application/commands"
	"github.com/temposched/tempo/internal/scheduling/application/queries"
	"github.com/temposched/tempo/internal/scheduling/application/services"
	schedulingDomain "github.com/temposched/tempo/internal/scheduling/domain"
	schedulePersistence "github.com/temposched/tempo/internal/scheduling/infrastructure/persistence"
	sharedApplication "github.com/temposched/tempo/internal/shared/application"
	"github.com/temposched/tempo/internal/shared/infrastructure/database"
	"github.com/temposched/tempo/internal/shared/infrastructure/database/postgres"
	"github.com/temposched/tempo/internal/shared/infrastructure/database/sqlite"
	"github.com/temposched/tempo/internal/shared/infrastructure/eventbus"
	"github.com/temposched/tempo/internal/shared/infrastructure/locking"
	"github.com/temposched/tempo/internal/shared/infrastructure/migrations"
	sharedPersistence "github.com/temposched/tempo/internal/shared/infrastructure/persistence"
	"github.com/temposched/tempo/pkg/config"
)

// Container holds all application dependencies. Local mode runs on SQLite
// with in-process locking and event dispatch; server mode uses PostgreSQL,
// Redis, and RabbitMQ.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database (exactly one of these is set, per DBDriver)
	SQLiteDB *sql.DB
	PgPool   *pgxpool.Pool
	DBDriver database.Driver

	RedisClient *redis.Client

	// Repositories
	BookingRepo    schedulingDomain.BookingRepository
	PreferenceRepo schedulingDomain.PreferenceRepository

	// Shared infrastructure
	UnitOfWork     sharedApplication.UnitOfWork
	EventPublisher eventbus.Publisher
	UserLock       locking.UserLock

	// Services
	SlotFinder         *services.SlotFinder
	DisplacementEngine *services.DisplacementEngine

	// Command handlers
	ScheduleTaskHandler      *commands.ScheduleTaskHandler
	RescheduleTaskHandler    *commands.RescheduleTaskHandler
	CancelBookingHandler     *commands.CancelBookingHandler
	UpdatePreferencesHandler *commands.UpdatePreferencesHandler

	// Query handlers
	FindBestSlotHandler   *queries.FindBestSlotHandler
	GetAgendaHandler      *queries.GetAgendaHandler
	GetPreferencesHandler *queries.GetPreferencesHandler
}

// NewContainer wires the application from config.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	driver, err := database.ParseDriver(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	c.DBDriver = driver

	if err := c.setupDatabase(ctx, cfg); err != nil {
		return nil, err
	}
	if err := c.setupMessaging(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	c.setupHandlers(cfg)

	logger.Info("container initialized",
		"driver", string(driver),
		"redis", cfg.RedisURL != "",
		"rabbitmq", cfg.RabbitMQURL != "",
	)

	return c, nil
}

func (c *Container) setupDatabase(ctx context.Context, cfg *config.Config) error {
	dbCfg := database.Config{
		Driver:     c.DBDriver,
		SQLitePath: cfg.SQLitePath,
		URL:        cfg.DatabaseURL,
		MaxConns:   cfg.MaxConns,
	}

	switch c.DBDriver {
	case database.DriverSQLite:
		db, err := sqlite.Open(ctx, dbCfg)
		if err != nil {
			return err
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.SQLiteDB = db
		c.BookingRepo = schedulePersistence.NewSQLiteBookingRepository(db)
		c.PreferenceRepo = schedulePersistence.NewSQLitePreferenceRepository(db)
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)

	case database.DriverPostgres:
		pool, err := postgres.Open(ctx, dbCfg)
		if err != nil {
			return err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.PgPool = pool
		c.BookingRepo = schedulePersistence.NewPostgresBookingRepository(pool)
		c.PreferenceRepo = schedulePersistence.NewPostgresPreferenceRepository(pool)
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
	}

	return nil
}

func (c *Container) setupMessaging(ctx context.Context, cfg *config.Config) error {
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, c.Logger)
		if err != nil {
			return err
		}
		c.EventPublisher = eventbus.NewBreakerPublisher(publisher, c.Logger)
	} else {
		c.EventPublisher = eventbus.NewInProcessBus(c.Logger)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.RedisClient = client
		c.UserLock = locking.NewRedisUserLock(client, c.Logger)
	} else {
		c.UserLock = locking.NewLocalUserLock()
	}

	return nil
}

func (c *Container) setupHandlers(cfg *config.Config) {
	schedulerConfig := services.DefaultSchedulerConfig()
	if cfg.MaxLookaheadDays > 0 {
		schedulerConfig.MaxLookaheadDays = cfg.MaxLookaheadDays
	}
	if cfg.MaxDisplacementDays > 0 {
		schedulerConfig.MaxDisplacementDays = cfg.MaxDisplacementDays
	}

	availability := services.NewAvailabilityFinder()
	scorer := services.NewSlotScorer()
	conflicts := services.NewConflictDetector(c.BookingRepo)

	c.SlotFinder = services.NewSlotFinder(c.BookingRepo, c.PreferenceRepo, availability, scorer, schedulerConfig)
	c.DisplacementEngine = services.NewDisplacementEngine(
		c.BookingRepo, conflicts, c.SlotFinder, c.EventPublisher, schedulerConfig, c.Logger)

	c.ScheduleTaskHandler = commands.NewScheduleTaskHandler(
		c.BookingRepo, c.PreferenceRepo, c.SlotFinder, c.DisplacementEngine,
		c.UnitOfWork, c.EventPublisher, c.UserLock, schedulerConfig, c.Logger)
	c.RescheduleTaskHandler = commands.NewRescheduleTaskHandler(
		c.BookingRepo, c.ScheduleTaskHandler, c.UnitOfWork, c.EventPublisher, c.UserLock, c.Logger)
	c.CancelBookingHandler = commands.NewCancelBookingHandler(
		c.BookingRepo, c.UnitOfWork, c.EventPublisher, c.Logger)
	c.UpdatePreferencesHandler = commands.NewUpdatePreferencesHandler(c.PreferenceRepo, c.UnitOfWork)

	c.FindBestSlotHandler = queries.NewFindBestSlotHandler(c.SlotFinder)
	c.GetAgendaHandler = queries.NewGetAgendaHandler(c.BookingRepo)
	c.GetPreferencesHandler = queries.NewGetPreferencesHandler(c.PreferenceRepo)
}

// Close releases all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis client", "error", err)
		}
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Close(); err != nil {
			c.Logger.Warn("error closing database", "error", err)
		}
	}
	if c.PgPool != nil {
		c.PgPool.Close()
	}
}
