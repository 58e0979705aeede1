package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	adjustStockHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/adjust_stock"
	cancelBookingHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/create_booking"
	getAdminLogsHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/get_admin_logs"
	getBookedDatesHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/get_booked_dates"
	getBookingHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/get_bookings"
	getStockHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/get_stock"
	getUserBookingsHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/get_user_bookings"
	updateBookingStatusHandler "github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-CostumeRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CostumeRentalService/internal/config"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/cache"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/events"
	"github.com/m04kA/SMC-CostumeRentalService/internal/infra/lock"
	adminLogRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/adminlog"
	bookingRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/booking"
	costumeRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/costume"
	stockRepo "github.com/m04kA/SMC-CostumeRentalService/internal/infra/storage/stock"
	adminLogService "github.com/m04kA/SMC-CostumeRentalService/internal/service/adminlog"
	bookingsService "github.com/m04kA/SMC-CostumeRentalService/internal/service/bookings"
	inventoryService "github.com/m04kA/SMC-CostumeRentalService/internal/service/inventory"
	changeBookingStatusUC "github.com/m04kA/SMC-CostumeRentalService/internal/usecase/change_booking_status"
	createBookingUC "github.com/m04kA/SMC-CostumeRentalService/internal/usecase/create_booking"
	getBookedDatesUC "github.com/m04kA/SMC-CostumeRentalService/internal/usecase/get_booked_dates"
	"github.com/m04kA/SMC-CostumeRentalService/migrations"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/logger"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/metrics"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/txmanager"
)

// redisRetryInterval пауза между попытками взять распределённую блокировку
const redisRetryInterval = 25 * time.Millisecond

// bookedDatesCache кеш календаря, общий для use case и сервисов
type bookedDatesCache interface {
	getBookedDatesUC.BookedDatesCache
	InvalidateBookedDates(ctx context.Context, costumeID int64, size string) error
}

// eventPublisher публикатор событий с освобождением ресурсов
type eventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	io.Closer
}

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CostumeRentalService...")
	log.Info("Configuration loaded from %s", *configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}
	policy := cfg.Booking.Policy()
	log.Info("Capacity policy=%s, timezone=%s", policy, location)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Метрики пишутся всегда, наружу отдаются только при включенном эндпоинте
	var promRegisterer prometheus.Registerer = prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		promRegisterer = prometheus.DefaultRegisterer
	}
	metricsCollector := metrics.New(cfg.Metrics.ServiceName, promRegisterer)

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.ApplyMigrations {
		if err := migrations.Apply(ctx, db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	stopMetricsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithMaxRetries(cfg.Booking.TxMaxRetries),
		txmanager.WithRetryDelay(cfg.Booking.TxRetryDelay),
	)

	// Инициализируем репозитории
	costumeRepository := costumeRepo.NewRepository(wrappedDB)
	stockRepository := stockRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	adminLogRepository := adminLogRepo.NewRepository(wrappedDB)

	// Redis: кеш календаря и распределённая блокировка
	var redisClient *redis.Client
	if cfg.Redis.Enabled || cfg.Redis.LockEnabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		log.Info("Connected to redis at %s", cfg.Redis.Addr)
	}

	var datesCache bookedDatesCache = cache.NopCache{}
	if cfg.Redis.Enabled {
		datesCache = cache.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
		log.Info("Booked dates cache enabled (ttl=%s)", cfg.Redis.CacheTTL)
	}

	var locker createBookingUC.Locker = lock.NewLocal(cfg.Booking.LockWait)
	if cfg.Redis.LockEnabled {
		locker = lock.NewRedis(redisClient, cfg.Redis.LockTTL, cfg.Booking.LockWait, redisRetryInterval, log)
		log.Info("Distributed booking lock enabled (ttl=%s, wait=%s)", cfg.Redis.LockTTL, cfg.Booking.LockWait)
	}

	// Kafka: доменные события
	var publisher eventPublisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Инициализируем сервисы и use cases
	inventorySvc := inventoryService.NewService(
		costumeRepository,
		stockRepository,
		bookingRepository,
		adminLogRepository,
		txMgr,
		datesCache,
		publisher,
		metricsCollector,
		policy,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		inventorySvc,
		bookingRepository,
		locker,
		txMgr,
		datesCache,
		publisher,
		metricsCollector,
		location,
		log,
	)

	changeStatusUseCase := changeBookingStatusUC.NewUseCase(
		bookingRepository,
		adminLogRepository,
		txMgr,
		datesCache,
		publisher,
		metricsCollector,
		log,
	)

	getBookedDatesUseCase := getBookedDatesUC.NewUseCase(inventorySvc, datesCache, log)

	bookingSvc := bookingsService.NewService(bookingRepository, changeStatusUseCase, log)
	adminLogSvc := adminLogService.NewService(adminLogRepository, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBookedDates := getBookedDatesHandler.NewHandler(getBookedDatesUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getStock := getStockHandler.NewHandler(inventorySvc, log)
	adjustStock := adjustStockHandler.NewHandler(inventorySvc, log)
	getAdminLogs := getAdminLogsHandler.NewHandler(adminLogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь занятых дат размера
	api.HandleFunc("/costumes/{costumeId}/booked-dates", getBookedDates.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Tg-ID header)
	// ============================================================

	auth := middleware.NewAuthenticator(cfg.Auth.AdminIDs)
	log.Info("Admin accounts configured: %d", len(cfg.Auth.AdminIDs))

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Auth)

	// --- Бронирования клиента ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/my", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPut)

	// --- Администрирование ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminOnly)

	admin.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/stock", getStock.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/stock/adjust", adjustStock.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/logs", getAdminLogs.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("%v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := publisher.Close(); err != nil {
		log.Error("Failed to close event publisher: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
