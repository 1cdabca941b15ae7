package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/glowdesk/booking-engine/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/glowdesk/booking-engine/internal/api/handlers/confirm_booking"
	createOrderHandler "github.com/glowdesk/booking-engine/internal/api/handlers/create_order"
	getAvailableSlotsHandler "github.com/glowdesk/booking-engine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/glowdesk/booking-engine/internal/api/handlers/get_booking"
	getSalonBookingsHandler "github.com/glowdesk/booking-engine/internal/api/handlers/get_salon_bookings"
	getSalonConfigHandler "github.com/glowdesk/booking-engine/internal/api/handlers/get_salon_config"
	getUserBookingsHandler "github.com/glowdesk/booking-engine/internal/api/handlers/get_user_bookings"
	updateSalonConfigHandler "github.com/glowdesk/booking-engine/internal/api/handlers/update_salon_config"
	"github.com/glowdesk/booking-engine/internal/api/middleware"
	"github.com/glowdesk/booking-engine/internal/config"
	slotsCache "github.com/glowdesk/booking-engine/internal/infra/cache/slots"
	bookingRepo "github.com/glowdesk/booking-engine/internal/infra/storage/booking"
	configRepo "github.com/glowdesk/booking-engine/internal/infra/storage/config"
	paymentClient "github.com/glowdesk/booking-engine/internal/integrations/payment"
	salonServiceClient "github.com/glowdesk/booking-engine/internal/integrations/salonservice"
	bookingsService "github.com/glowdesk/booking-engine/internal/service/bookings"
	configService "github.com/glowdesk/booking-engine/internal/service/config"
	confirmBookingUC "github.com/glowdesk/booking-engine/internal/usecase/confirm_booking"
	createOrderUC "github.com/glowdesk/booking-engine/internal/usecase/create_order"
	getAvailableSlotsUC "github.com/glowdesk/booking-engine/internal/usecase/get_available_slots"
	"github.com/glowdesk/booking-engine/internal/worker/holdsweeper"
	"github.com/glowdesk/booking-engine/pkg/dbmetrics"
	"github.com/glowdesk/booking-engine/pkg/logger"
	"github.com/glowdesk/booking-engine/pkg/metrics"
	"github.com/glowdesk/booking-engine/pkg/simpletxmanager"
	"github.com/glowdesk/booking-engine/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting booking-engine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	salonClient := salonServiceClient.NewClient(
		cfg.SalonService.URL,
		time.Duration(cfg.SalonService.Timeout)*time.Second,
		log,
	)
	payClient := paymentClient.NewClient(
		cfg.Payment.URL,
		cfg.Payment.KeyID,
		cfg.Payment.KeySecret,
		time.Duration(cfg.Payment.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (SalonService=%s timeout=%ds, Payment=%s timeout=%ds)",
		cfg.SalonService.URL, cfg.SalonService.Timeout, cfg.Payment.URL, cfg.Payment.Timeout)

	// Инициализируем кэш слотов на Redis (если включен)
	var slotCache *slotsCache.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer rdb.Close()

		slotCache = slotsCache.New(rdb, time.Duration(cfg.Redis.SlotCacheTTL)*time.Second)
		log.Info("Slot cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.SlotCacheTTL)
	}

	// Интерфейсы кэша для use cases; остаются nil при выключенном Redis
	var readCache getAvailableSlotsUC.SlotCache
	var orderInvalidator createOrderUC.SlotCache
	var confirmInvalidator confirmBookingUC.SlotCache
	if slotCache != nil {
		readCache = slotCache
		orderInvalidator = slotCache
		confirmInvalidator = slotCache
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		configRepository  *configRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		configRepository = configRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		configRepository = configRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Метрики ручного разбора платежей; nil при выключенных метриках
	var reconciliationMetrics confirmBookingUC.Metrics
	if metricsCollector != nil {
		reconciliationMetrics = metricsCollector
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		salonClient,
		log,
	)
	configSvc := configService.NewService(
		configRepository,
		salonClient,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		configRepository,
		salonClient,
		readCache,
		log,
	)

	createOrderUseCase := createOrderUC.NewUseCase(
		bookingRepository,
		configRepository,
		salonClient,
		payClient,
		orderInvalidator,
		txMgr,
		log,
	)

	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		configRepository,
		salonClient,
		payClient,
		confirmInvalidator,
		txMgr,
		reconciliationMetrics,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createOrder := createOrderHandler.NewHandler(createOrderUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getSalonBookings := getSalonBookingsHandler.NewHandler(bookingSvc, log)
	getSalonConfig := getSalonConfigHandler.NewHandler(configSvc, log)
	updateSalonConfig := updateSalonConfigHandler.NewHandler(configSvc, log)

	// Запускаем фоновую чистку просроченных holds
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	sweepInterval := time.Duration(cfg.Booking.HoldSweepInterval) * time.Second
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	sweeper := holdsweeper.New(bookingRepository, sweepInterval, log)
	go sweeper.Run(sweeperCtx)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Получение доступных слотов для бронирования
	api.HandleFunc("/salons/{salonId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение действующей конфигурации слотов салона
	api.HandleFunc("/salons/{salonId}/config",
		getSalonConfig.Handle).Methods(http.MethodGet)

	// Callback платежного провайдера; авторизуется HMAC-подписью, не заголовком
	api.HandleFunc("/bookings/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Выпуск платежного ордера с мягким удержанием слота
	protected.HandleFunc("/orders", createOrder.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для менеджеров) ---
	// Список бронирований салона
	protected.HandleFunc("/salons/{salonId}/bookings", getSalonBookings.Handle).Methods(http.MethodGet)

	// Обновление конфигурации салона
	protected.HandleFunc("/salons/{salonId}/config", updateSalonConfig.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновую чистку и сбор метрик connection pool
	stopSweeper()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
