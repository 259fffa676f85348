package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/dto"
	calendarapp "roomdesk/internal/app/handlers/calendar"
	"roomdesk/internal/app/middleware"
	appoutbox "roomdesk/internal/app/outbox"
	"roomdesk/internal/app/policies"
	"roomdesk/internal/app/queries"
	authsvc "roomdesk/internal/app/services/auth"
	"roomdesk/internal/app/views"
	domainauth "roomdesk/internal/domain/auth"
	"roomdesk/internal/infra/broker/kafka"
	"roomdesk/internal/infra/config"
	dbmongo "roomdesk/internal/infra/db/mongo"
	"roomdesk/internal/infra/hotelapi"
	ginserver "roomdesk/internal/infra/http/gin"
	"roomdesk/internal/infra/inbox"
	"roomdesk/internal/infra/obs"
	outboxstore "roomdesk/internal/infra/outbox"
	"roomdesk/internal/infra/security"
	"roomdesk/internal/infra/storage/memory"
	redisstore "roomdesk/internal/infra/storage/redis"
	"roomdesk/internal/infra/storage/s3"
	"roomdesk/internal/infra/validation"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("prod").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	if err := app.seedStaff(ctx, cfg); err != nil {
		logger.Error("seed staff failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, app.health, app.handlers)

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range app.background {
		g.Go(func() error {
			if err := task.run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("background task stopped", "task", task.name, "error", err)
			}
			return nil
		})
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		logger.Info("closing calendar views", "mounted", app.views.Len())
		app.views.Close()
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "hotel_api", cfg.HotelAPIMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	stop()
	_ = g.Wait()
	logger.Info("HTTP server stopped")
}

type backgroundTask struct {
	name string
	run  func(ctx context.Context) error
}

type application struct {
	handlers   ginserver.Handlers
	health     obs.HealthHandlers
	views      *views.Manager
	auth       *authsvc.Service
	background []backgroundTask
	closers    []func(ctx context.Context) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{health: obs.HealthHandlers{Timeout: 2 * time.Second}}

	hotels, err := buildHotelDirectory(cfg, logger)
	if err != nil {
		return nil, err
	}

	var mongoClient *dbmongo.Client
	if cfg.MongoURI != "" {
		mongoClient, err = dbmongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		app.closers = append(app.closers, mongoClient.Close)
		app.health.Checks = append(app.health.Checks, obs.Check{Name: "mongo", Ping: mongoClient.Ping})
	} else {
		logger.Warn("MONGO_URI not set, idempotency keys and events stay in memory")
	}

	var idStore middleware.IdempotencyStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	if mongoClient != nil {
		store, err := dbmongo.NewIdempotencyStore(ctx, mongoClient.DB, cfg.IdempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("idempotency store: %w", err)
		}
		idStore = store
	}

	var box appoutbox.Outbox = memory.NewOutbox(logger)
	var producer *kafka.Producer
	if cfg.Events() {
		store, err := outboxstore.NewStore(ctx, mongoClient.DB)
		if err != nil {
			return nil, fmt.Errorf("outbox store: %w", err)
		}
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return producer.Close() })
		box = store
		worker := &outboxstore.Worker{
			Queue:       store,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
			Logger:      logger,
		}
		app.background = append(app.background, backgroundTask{name: "outbox-worker", run: worker.Run})
	} else if len(cfg.KafkaBrokers) > 0 {
		logger.Warn("KAFKA_BROKERS set without MONGO_URI, events are not published")
	}

	var exports policies.ExportStore
	if cfg.Exports() {
		client, err := s3.NewClient(s3.Config{
			Endpoint:      cfg.S3Endpoint,
			UseSSL:        cfg.S3UseSSL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicEndpoint,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		exports = client
	} else {
		logger.Warn("S3_ENDPOINT not set, calendar export is disabled")
	}

	sessions, err := buildSessionStore(cfg, app)
	if err != nil {
		return nil, err
	}

	encoder := appoutbox.JSONEventEncoder{}
	commandBus := commands.NewInMemoryBus()
	commands.Register[calendarapp.QuickBookingCommand, *dto.QuickBookingResult](commandBus, &calendarapp.QuickBookingHandler{
		Hotels: hotels, Outbox: box, Encoder: encoder, Logger: logger,
	})
	commands.Register[calendarapp.UpdateRoomStatusCommand, *dto.Room](commandBus, &calendarapp.UpdateRoomStatusHandler{
		Hotels: hotels, Outbox: box, Encoder: encoder, Logger: logger,
	})
	commands.Register[calendarapp.ExportCalendarCommand, *dto.ExportResult](commandBus, &calendarapp.ExportCalendarHandler{
		Hotels: hotels, Exports: exports, Logger: logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.Register[calendarapp.GetGridQuery, dto.CalendarGrid](queryBus, &calendarapp.GetGridHandler{Hotels: hotels, Logger: logger})
	queries.Register[calendarapp.GetRoomPanelQuery, dto.RoomPanel](queryBus, &calendarapp.GetRoomPanelHandler{Hotels: hotels})
	queries.Register[calendarapp.CheckAvailabilityQuery, dto.Availability](queryBus, &calendarapp.CheckAvailabilityHandler{Hotels: hotels})

	validator := validation.New()
	commandsWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Logging(logger),
		middleware.Authorization(),
		middleware.Validation(validator),
		middleware.Idempotency(idStore, nil),
		middleware.OutboxFlush(box, logger),
	)
	queriesWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
	)

	app.views = views.NewManager(views.Config{
		Hotels:          hotels,
		Commands:        commandsWithMiddleware,
		RefreshInterval: cfg.ViewRefreshInterval,
		Logger:          logger,
	})

	if len(cfg.KafkaBrokers) > 0 {
		if err := app.addRefreshConsumer(ctx, cfg, mongoClient, logger); err != nil {
			return nil, err
		}
	}

	app.auth = &authsvc.Service{
		Staff:      memory.NewStaffDirectory(),
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	app.handlers = ginserver.Handlers{
		Auth:           ginserver.AuthHandler{Service: app.auth, Logger: logger},
		Calendar:       ginserver.CalendarHandler{Commands: commandsWithMiddleware, Queries: queriesWithMiddleware, Logger: logger},
		Views:          ginserver.ViewHandler{Views: app.views, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{Service: app.auth, Logger: logger}.Handle,
	}
	return app, nil
}

func buildHotelDirectory(cfg config.Config, logger *slog.Logger) (policies.HotelDirectory, error) {
	if cfg.HotelAPIMode == config.HotelAPIHTTP {
		client, err := hotelapi.New(hotelapi.Config{
			BaseURL: cfg.HotelAPIURL,
			Token:   cfg.HotelAPIToken,
			Timeout: cfg.HotelAPITimeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("hotel api client: %w", err)
		}
		return client, nil
	}

	path := cfg.HotelFixtures
	if path == "" {
		path = defaultFixturesPath()
	}
	fx, err := memory.LoadFixture(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		logger.Info("hotel fixtures file not found, starting empty", "path", path)
		fx = memory.Fixture{}
	}
	dir, err := memory.NewHotelDirectory(fx)
	if err != nil {
		return nil, fmt.Errorf("hotel fixtures: %w", err)
	}
	logger.Info("hotel fixtures loaded", "path", path, "hotels", len(fx.Hotels))
	return dir, nil
}

func buildSessionStore(cfg config.Config, app *application) (domainauth.SessionStore, error) {
	if cfg.SessionStore != config.SessionStoreRedis {
		return memory.NewSessionStore(), nil
	}
	client := redisstore.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	store := redisstore.NewSessionStore(client, "")
	app.closers = append(app.closers, func(context.Context) error { return client.Close() })
	app.health.Checks = append(app.health.Checks, obs.Check{Name: "redis", Ping: store.Ping})
	return store, nil
}

// addRefreshConsumer subscribes to calendar events so that bookings made through
// other instances reload the views mounted here. Each instance joins its own
// consumer group, otherwise partitions would be split between instances.
func (a *application) addRefreshConsumer(ctx context.Context, cfg config.Config, mongoClient *dbmongo.Client, logger *slog.Logger) error {
	group := cfg.KafkaGroupID + "-" + uuid.NewString()[:8]
	var seen kafka.Inbox = memory.NewInbox()
	if mongoClient != nil {
		store, err := inbox.NewStore(ctx, mongoClient.DB, group)
		if err != nil {
			return fmt.Errorf("inbox store: %w", err)
		}
		seen = store
	}
	handler := &kafka.RefreshHandler{Views: a.views, Inbox: seen, Logger: logger}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, group, nil, handler, logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	topic := outboxstore.TopicFor(cfg.KafkaTopicPrefix, "calendar")
	a.closers = append(a.closers, func(context.Context) error { return consumer.Close() })
	a.background = append(a.background, backgroundTask{
		name: "view-refresh-consumer",
		run: func(ctx context.Context) error {
			logger.Info("listening for calendar events", "topic", topic, "group", group)
			return consumer.Run(ctx, []string{topic})
		},
	})
	return nil
}

func (a *application) seedStaff(ctx context.Context, cfg config.Config) error {
	accounts := []authsvc.SeedParams{
		{Email: cfg.AdminEmail, Name: "Administrator", Password: cfg.AdminPassword, Role: domainauth.RoleAdmin},
		{Email: cfg.StaffEmail, Name: "Front desk", Password: cfg.StaffPassword, Role: domainauth.RoleStaff},
	}
	for _, acc := range accounts {
		if acc.Email == "" || acc.Password == "" {
			continue
		}
		if _, err := a.auth.Seed(ctx, acc); err != nil {
			return fmt.Errorf("seed %s: %w", acc.Email, err)
		}
	}
	return nil
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

func defaultFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "hotel.json"),
		filepath.Join("..", "..", "data", "hotel.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
