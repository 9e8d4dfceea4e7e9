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
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_appointment"
	createTimeBlockHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_time_block"
	getAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_appointment"
	getAvailableTimesHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_available_times"
	getCurrentPayrollHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_current_payroll"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_customer_appointments"
	getEmployeeScheduleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_employee_schedule"
	getPayrollHistoryHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_payroll_history"
	getTimeBlocksHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_time_blocks"
	updateEmployeeScheduleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_employee_schedule"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/availability"
	employeeRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/employee"
	orderRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/order"
	salonRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/salon"
	timeBlockRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/timeblock"
	notificationServiceClient "github.com/m04kA/SMC-SalonService/internal/integrations/notificationservice"
	appointmentsService "github.com/m04kA/SMC-SalonService/internal/service/appointments"
	payrollService "github.com/m04kA/SMC-SalonService/internal/service/payroll"
	scheduleService "github.com/m04kA/SMC-SalonService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	getAvailableTimesUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_times"
	"github.com/m04kA/SMC-SalonService/internal/worker/statussweep"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/tracing"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
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

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from config.toml")

	// Трассировка (при выключенной ставятся только пропагаторы)
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled (endpoint=%s, ratio=%.2f)", cfg.Tracing.OTLPEndpoint, cfg.Tracing.SampleRatio)
	}

	// Инициализируем метрики (если включены)
	// Интерфейсные переменные остаются nil при выключенных метриках
	var (
		metricsCollector *metrics.Metrics
		dbObserver       dbmetrics.Observer
		sweepRecorder    statussweep.Recorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
		sweepRecorder = metricsCollector
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, dbObserver, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	timeBlockRepository := timeBlockRepo.NewRepository(wrappedDB)
	employeeRepository := employeeRepo.NewRepository(wrappedDB)
	salonRepository := salonRepo.NewRepository(wrappedDB)
	orderRepository := orderRepo.NewRepository(wrappedDB)

	// Клиент сервиса уведомлений (пустой URL отключает отправку)
	notificationURL := ""
	if cfg.NotificationService.Enabled {
		notificationURL = cfg.NotificationService.URL
	}
	var notificationTransport http.RoundTripper = http.DefaultTransport
	if cfg.Tracing.Enabled {
		notificationTransport = otelhttp.NewTransport(http.DefaultTransport)
	}
	notificationClient := notificationServiceClient.NewClientWithTransport(
		notificationURL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		notificationTransport,
		log,
	)
	log.Info("Notification client initialized (enabled=%t, url=%s, timeout=%ds)",
		cfg.NotificationService.Enabled, cfg.NotificationService.URL, cfg.NotificationService.Timeout)

	// Настройки расчёта зарплаты
	qualifying, err := payrollService.ParseStatuses(cfg.Payroll.QualifyingStatuses)
	if err != nil {
		log.Fatal("Invalid payroll.qualifying_statuses: %v", err)
	}
	payrollCfg := payrollService.Config{
		QualifyingStatuses: qualifying,
		CommissionRate:     cfg.Payroll.CommissionRate(),
		Location:           cfg.Payroll.Location(),
		HistoryPeriods:     cfg.Payroll.HistoryPeriods,
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, log)
	scheduleSvc := scheduleService.NewService(
		availabilityRepository,
		timeBlockRepository,
		employeeRepository,
		txMgr,
		log,
	)
	payrollSvc := payrollService.NewService(
		appointmentRepository,
		orderRepository,
		employeeRepository,
		salonRepository,
		payrollCfg,
		log,
	)

	// Инициализируем use cases
	getAvailableTimesUseCase := getAvailableTimesUC.NewUseCase(
		employeeRepository,
		availabilityRepository,
		appointmentRepository,
		timeBlockRepository,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		timeBlockRepository,
		availabilityRepository,
		employeeRepository,
		salonRepository,
		notificationClient,
		txMgr,
		log,
	)

	// Фоновое завершение прошедших записей
	var sweepWorker *statussweep.Worker
	if cfg.Sweep.Enabled {
		sweepWorker = statussweep.NewWorker(appointmentRepository, txMgr, sweepRecorder, log)
		if err := sweepWorker.Start(cfg.Sweep.Schedule); err != nil {
			log.Fatal("Failed to start status sweep: %v", err)
		}
		log.Info("Status sweep scheduled (%s)", cfg.Sweep.Schedule)
	}

	// Инициализируем handlers
	getAvailableTimes := getAvailableTimesHandler.NewHandler(getAvailableTimesUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getEmployeeSchedule := getEmployeeScheduleHandler.NewHandler(scheduleSvc, log)
	updateEmployeeSchedule := updateEmployeeScheduleHandler.NewHandler(scheduleSvc, log)
	createTimeBlock := createTimeBlockHandler.NewHandler(scheduleSvc, log)
	getTimeBlocks := getTimeBlocksHandler.NewHandler(scheduleSvc, log)
	getCurrentPayroll := getCurrentPayrollHandler.NewHandler(payrollSvc, log)
	getPayrollHistory := getPayrollHistoryHandler.NewHandler(payrollSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		limiter := middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Limit,
			cfg.RateLimit.Window(),
			cfg.RateLimit.Prefix,
			cfg.RateLimit.FailOpen,
			log,
		)
		public.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (redis=%s, limit=%d per %ds, fail_open=%t)",
			cfg.RateLimit.RedisAddr, cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds, cfg.RateLimit.FailOpen)
	}

	// --- Мастера ---
	public.HandleFunc("/employees/{employeeId}/available-times", getAvailableTimes.Handle).Methods(http.MethodGet)
	public.HandleFunc("/employees/{employeeId}/schedule", getEmployeeSchedule.Handle).Methods(http.MethodGet)
	public.HandleFunc("/employees/{employeeId}/time-blocks", getTimeBlocks.Handle).Methods(http.MethodGet)

	// --- Зарплата ---
	public.HandleFunc("/employees/{employeeId}/payroll/current-period", getCurrentPayroll.HandleEmployee).Methods(http.MethodGet)
	public.HandleFunc("/employees/{employeeId}/payroll/history", getPayrollHistory.HandleEmployee).Methods(http.MethodGet)
	public.HandleFunc("/salons/{salonId}/payroll/current-period", getCurrentPayroll.HandleSalon).Methods(http.MethodGet)
	public.HandleFunc("/salons/{salonId}/payroll/history", getPayrollHistory.HandleSalon).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/{customerId}/appointments/upcoming", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление расписанием ---
	protected.HandleFunc("/employees/{employeeId}/schedule", updateEmployeeSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/employees/{employeeId}/time-blocks", createTimeBlock.Handle).Methods(http.MethodPost)

	var handler http.Handler = r
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(r, cfg.Metrics.ServiceName)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if sweepWorker != nil {
		sweepWorker.Stop(shutdownCtx)
		log.Info("Status sweep stopped")
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
