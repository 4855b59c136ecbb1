package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"petlodge/internal/app/commands"
	availabilityapp "petlodge/internal/app/handlers/availability"
	bookingapp "petlodge/internal/app/handlers/booking"
	meapp "petlodge/internal/app/handlers/me"
	petsapp "petlodge/internal/app/handlers/pets"
	reviewsapp "petlodge/internal/app/handlers/reviews"
	suitesapp "petlodge/internal/app/handlers/suites"
	"petlodge/internal/app/middleware"
	appoutbox "petlodge/internal/app/outbox"
	"petlodge/internal/app/policies"
	"petlodge/internal/app/queries"
	"petlodge/internal/app/schedule"
	"petlodge/internal/app/services/auth"
	"petlodge/internal/app/uow"
	domainavailability "petlodge/internal/domain/availability"
	domainbooking "petlodge/internal/domain/booking"
	domainpets "petlodge/internal/domain/pets"
	domainpricing "petlodge/internal/domain/pricing"
	domainreviews "petlodge/internal/domain/reviews"
	domainsuites "petlodge/internal/domain/suites"
	"petlodge/internal/infra/broker/kafka"
	"petlodge/internal/infra/config"
	mongodb "petlodge/internal/infra/db/mongo"
	ginserver "petlodge/internal/infra/http/gin"
	"petlodge/internal/infra/inbox"
	"petlodge/internal/infra/notify"
	"petlodge/internal/infra/obs"
	infraoutbox "petlodge/internal/infra/outbox"
	"petlodge/internal/infra/payments"
	"petlodge/internal/infra/rates"
	"petlodge/internal/infra/security"
	"petlodge/internal/infra/storage/memory"
	"petlodge/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.RatesMode = "memory"
		cfg.PendingBookingTTL = 24 * time.Hour
		cfg.SweepInterval = time.Minute
		cfg.OutboxPollInterval = 500 * time.Millisecond
		cfg.SanitationGapHours = 2
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	app := buildApplication(ctx, cfg, logger)
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := getenv("SUITE_FIXTURES", "")
	if fixturesPath == "" {
		fixturesPath = defaultSuiteFixturesPath()
	}
	if err := app.loadSuiteFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("suite fixtures load failed", "error", err, "path", fixturesPath)
	}

	for _, worker := range app.workers {
		go worker(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	workers  []func(context.Context)
	closers  []func() error
	ready    func() error
	repos    struct {
		suites       domainsuites.SuiteRepository
		availability domainavailability.Repository
	}
}

func (a *application) close(logger *slog.Logger) {
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) *application {
	app := &application{ready: func() error { return nil }}

	suitesRepo := domainsuites.SuiteRepository(memory.NewSuiteRepository())
	calendarRepo := domainavailability.Repository(memory.NewCalendarRepository())
	bookingRepo := domainbooking.Repository(memory.NewBookingRepository())
	petsRepo := domainpets.Repository(memory.NewPetRepository())
	reviewsRepo := domainreviews.Repository(memory.NewReviewsRepository())
	pricingCalc := domainpricing.NewCalculator()

	var (
		factory     uow.UoWFactory
		outboxStore appoutbox.Outbox
		idStore     middleware.IdempotencyStore
	)

	mongoClient := connectMongo(ctx, cfg, logger)
	if mongoClient != nil {
		bookingRepo = mongodb.NewBookingRepository(mongoClient.DB)
		calendarRepo = mongodb.NewCalendarRepository(mongoClient.DB)
		mongoOutbox := infraoutbox.NewStore(mongoClient.DB)
		outboxStore = mongoOutbox
		idStore = mongodb.NewIdempotencyStore(mongoClient.DB)
		factory = mongodb.Factory{
			DB:               mongoClient.DB,
			SuitesRepo:       suitesRepo,
			AvailabilityRepo: calendarRepo,
			BookingRepo:      bookingRepo,
			PetsRepo:         petsRepo,
			PricingSvc:       pricingCalc,
			ReviewsRepo:      reviewsRepo,
		}
		app.closers = append(app.closers, func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return mongoClient.DB.Client().Disconnect(closeCtx)
		})
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return mongoClient.Ping(pingCtx)
		}
		wireKafka(cfg, logger, app, mongoClient, mongoOutbox)
	} else {
		outboxStore = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
		factory = memory.Factory{
			SuitesRepo:       suitesRepo,
			AvailabilityRepo: calendarRepo,
			BookingRepo:      bookingRepo,
			PetsRepo:         petsRepo,
			PricingSvc:       pricingCalc,
			ReviewsRepo:      reviewsRepo,
		}
	}
	app.repos.suites = suitesRepo
	app.repos.availability = calendarRepo

	usersRepo := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	authService := &auth.Service{
		Users:     usersRepo,
		Sessions:  sessions,
		Passwords: security.BcryptHasher{},
		Tokens:    security.RandomTokenGenerator{},
		Logger:    logger,
	}

	ratesPort := buildRatesPort(cfg, logger)
	uploader := buildUploader(cfg, logger)
	ledger := payments.NewLedger(logger)
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory:         factory,
		Outbox:             outboxStore,
		Encoder:            encoder,
		SanitationGapHours: cfg.SanitationGapHours,
	})
	commands.RegisterHandler(commandBus, meapp.CancelBookingCommand{}.Key(), &meapp.CancelBookingHandler{
		Outbox:   outboxStore,
		Encoder:  encoder,
		Payments: ledger,
		Logger:   logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmFacilityBookingCommand{}.Key(), &bookingapp.ConfirmFacilityBookingHandler{Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.DeclineFacilityBookingCommand{}.Key(), &bookingapp.DeclineFacilityBookingHandler{
		Outbox:  outboxStore,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.CheckInBookingCommand{}.Key(), &bookingapp.CheckInBookingHandler{Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.CheckOutBookingCommand{}.Key(), &bookingapp.CheckOutBookingHandler{Logger: logger})
	commands.RegisterHandler(commandBus, bookingapp.MarkNoShowCommand{}.Key(), &bookingapp.MarkNoShowHandler{
		Outbox:  outboxStore,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, suitesapp.CreateSuiteCommand{}.Key(), &suitesapp.CreateSuiteHandler{Logger: logger})
	commands.RegisterHandler(commandBus, suitesapp.UpdateSuiteCommand{}.Key(), &suitesapp.UpdateSuiteHandler{Logger: logger})
	commands.RegisterHandler(commandBus, suitesapp.ActivateSuiteCommand{}.Key(), &suitesapp.ActivateSuiteHandler{Logger: logger})
	commands.RegisterHandler(commandBus, suitesapp.SuspendSuiteCommand{}.Key(), &suitesapp.SuspendSuiteHandler{Logger: logger})
	commands.RegisterHandler(commandBus, suitesapp.UploadSuitePhotoCommand{}.Key(), &suitesapp.UploadSuitePhotoHandler{
		Logger:   logger,
		Uploader: uploader,
	})
	commands.RegisterHandler(commandBus, petsapp.RegisterPetCommand{}.Key(), &petsapp.RegisterPetHandler{Logger: logger})
	commands.RegisterHandler(commandBus, petsapp.UpdatePetCommand{}.Key(), &petsapp.UpdatePetHandler{Logger: logger})
	commands.RegisterHandler(commandBus, petsapp.UploadVaccinationCommand{}.Key(), &petsapp.UploadVaccinationHandler{
		Logger:   logger,
		Uploader: uploader,
	})
	commands.RegisterHandler(commandBus, reviewsapp.SubmitReviewCommand{}.Key(), &reviewsapp.SubmitReviewHandler{
		UoWFactory: factory,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, reviewsapp.UpdateReviewCommand{}.Key(), &reviewsapp.UpdateReviewHandler{
		UoWFactory: factory,
		Logger:     logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, suitesapp.SearchCatalogQuery{}.Key(), &suitesapp.SearchCatalogHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, suitesapp.GetOverviewQuery{}.Key(), &suitesapp.GetOverviewHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, suitesapp.ListFacilitySuitesQuery{}.Key(), &suitesapp.ListFacilitySuitesHandler{UoWFactory: factory, Logger: logger})
	queries.RegisterHandler(queryBus, suitesapp.GetFacilitySuiteQuery{}.Key(), &suitesapp.GetFacilitySuiteHandler{UoWFactory: factory, Logger: logger})
	queries.RegisterHandler(queryBus, suitesapp.SuiteRateSuggestionQuery{}.Key(), &suitesapp.SuiteRateSuggestionHandler{
		Logger:     logger,
		Rates:      ratesPort,
		UoWFactory: factory,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListFacilityBookingsQuery{}.Key(), &bookingapp.ListFacilityBookingsHandler{UoWFactory: factory, Logger: logger})
	queries.RegisterHandler(queryBus, bookingapp.GetQuoteQuery{}.Key(), &bookingapp.GetQuoteHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, meapp.ListCustomerBookingsQuery{}.Key(), &meapp.ListCustomerBookingsHandler{UoWFactory: factory, Logger: logger})
	queries.RegisterHandler(queryBus, petsapp.ListPetsQuery{}.Key(), &petsapp.ListPetsHandler{UoWFactory: factory, Logger: logger})
	queries.RegisterHandler(queryBus, reviewsapp.ListSuiteReviewsQuery{}.Key(), &reviewsapp.ListSuiteReviewsHandler{UoWFactory: factory, Logger: logger})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	sweeper := &schedule.ExpirySweeper{
		Factory:  factory,
		Outbox:   outboxStore,
		Encoder:  encoder,
		TTL:      cfg.PendingBookingTTL,
		Interval: cfg.SweepInterval,
		Logger:   logger,
	}
	app.workers = append(app.workers, sweeper.Run)

	var metricsClient *rates.MetricsClient
	if cfg.RateModelURL != "" {
		metricsClient = &rates.MetricsClient{
			Endpoint: strings.TrimSuffix(cfg.RateModelURL, "/") + "/metrics",
			Client:   &http.Client{Timeout: 5 * time.Second},
			Logger:   logger,
		}
	}

	app.handlers = ginserver.Handlers{
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Availability: ginserver.AvailabilityHandler{
			Queries: queryBusWithMiddleware,
		},
		Suite: ginserver.SuiteHandler{
			Queries: queryBusWithMiddleware,
		},
		FacilitySuite: ginserver.FacilitySuiteHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		FacilityBooking: ginserver.FacilityBookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Me: ginserver.MeHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Pets: ginserver.PetsHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Reviews: ginserver.ReviewsHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
		Auth: ginserver.AuthHandler{
			Service: authService,
			Logger:  logger,
		},
		Admin: ginserver.AdminHandler{
			Users:   usersRepo,
			Metrics: metricsClient,
			Logger:  logger,
		},
		AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
	}
	return app
}

func connectMongo(ctx context.Context, cfg config.Config, logger *slog.Logger) *mongodb.Client {
	if cfg.MongoURI == "" {
		logger.Info("MONGO_URI not set, using in-memory storage")
		return nil
	}
	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Warn("mongo unavailable, using in-memory storage", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn("mongo ping failed, using in-memory storage", "error", err)
		return nil
	}
	logger.Info("mongo storage ready", "database", cfg.MongoDB)
	return client
}

// wireKafka starts the outbox relay and the notification consumer when
// brokers are configured. Both are optional: without Kafka the outbox
// simply accumulates until a relay picks it up.
func wireKafka(cfg config.Config, logger *slog.Logger, app *application, client *mongodb.Client, store *infraoutbox.Store) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, outbox relay disabled")
		return
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Warn("kafka producer unavailable, outbox relay disabled", "error", err)
		return
	}
	app.closers = append(app.closers, producer.Close)

	worker := &infraoutbox.Worker{
		Store:       store,
		Producer:    producer,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}
	app.workers = append(app.workers, func(ctx context.Context) {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox relay stopped", "error", err)
		}
	})

	topic := "booking.events.v1"
	if cfg.KafkaTopicPrefix != "" {
		topic = cfg.KafkaTopicPrefix + "." + topic
	}
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, "petlodge-notify", nil, &notify.BookingEventsHandler{
		Inbox:    inbox.NewStore(client.DB, "petlodge-notify"),
		Notifier: notify.LogNotifier{Logger: logger},
		Logger:   logger,
	})
	if err != nil {
		logger.Warn("kafka consumer unavailable, notifications disabled", "error", err)
		return
	}
	app.closers = append(app.closers, consumer.Close)
	app.workers = append(app.workers, func(ctx context.Context) {
		if err := consumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notification consumer stopped", "error", err)
		}
	})
}

func buildRatesPort(cfg config.Config, logger *slog.Logger) policies.RatesPort {
	if strings.EqualFold(cfg.RatesMode, "model") && cfg.RateModelURL != "" {
		logger.Info("rate suggestions served by model", "endpoint", cfg.RateModelURL)
		return &rates.ModelClient{
			Client:   &http.Client{Timeout: 5 * time.Second},
			Endpoint: cfg.RateModelURL,
			Logger:   logger,
			Clamps:   rates.LoadClampConfig(os.Getenv("RATE_CLAMPS"), logger),
		}
	}
	return memory.NewRatesEngine()
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	if cfg.S3Endpoint == "" {
		logger.Info("S3_ENDPOINT not set, media uploads disabled")
		return s3.NoopUploader{}
	}
	store, err := s3.NewMediaStore(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("s3 unavailable, media uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return store
}

func (a *application) loadSuiteFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("suite fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("suite fixtures file empty", "path", path)
		return nil
	}

	var fixtures []suiteFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil
	}

	now := time.Now()
	for _, fx := range fixtures {
		suite, err := domainsuites.NewSuite(domainsuites.CreateSuiteParams{
			ID:               domainsuites.SuiteID(fx.ID),
			Facility:         domainsuites.FacilityID(fx.Facility),
			Name:             fx.Name,
			Description:      fx.Description,
			Type:             domainsuites.SuiteType(fx.Type),
			Capacity:         fx.Capacity,
			LocationCode:     fx.LocationCode,
			Features:         append([]string(nil), fx.Features...),
			MinNights:        fx.MinNights,
			MaxNights:        fx.MaxNights,
			MaxAdvanceDays:   fx.MaxAdvanceDays,
			NightlyRateCents: fx.NightlyRateCents,
			ThumbnailURL:     fx.ThumbnailURL,
			Rating:           fx.Rating,
			AvailableFrom:    parseFixtureTime(fx.AvailableFrom, now),
			Now:              now,
		})
		if err != nil {
			logger.Error("fixture invalid", "suite_id", fx.ID, "error", err)
			continue
		}
		if err := suite.Activate(now); err != nil {
			logger.Error("fixture activation failed", "suite_id", fx.ID, "error", err)
			continue
		}
		if err := a.repos.suites.Save(ctx, suite); err != nil {
			logger.Error("cannot store fixture suite", "suite_id", fx.ID, "error", err)
			continue
		}
		logger.Info("suite fixture imported", "suite_id", suite.ID)
	}
	return nil
}

type suiteFixture struct {
	ID               string   `json:"id"`
	Facility         string   `json:"facility"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Capacity         int      `json:"capacity"`
	LocationCode     string   `json:"location_code"`
	Features         []string `json:"features"`
	MinNights        int      `json:"min_nights"`
	MaxNights        int      `json:"max_nights"`
	MaxAdvanceDays   int      `json:"max_advance_days"`
	NightlyRateCents int64    `json:"nightly_rate_cents"`
	ThumbnailURL     string   `json:"thumbnail_url"`
	Rating           float64  `json:"rating"`
	AvailableFrom    string   `json:"available_from"`
}

func parseFixtureTime(value string, fallback time.Time) time.Time {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return fallback
}

func defaultSuiteFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "suites.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
