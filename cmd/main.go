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

	cancelAppointmentHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/complete_appointment"
	confirmAppointmentHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/confirm_appointment"
	createAppointmentHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/get_appointment"
	getCustomerAppointmentsHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/get_customer_appointments"
	getStaffScheduleHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/get_staff_schedule"
	listAppointmentsHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/list_appointments"
	updateStatusHandler "github.com/barber-crm/AppointmentService/internal/api/handlers/update_appointment_status"
	"github.com/barber-crm/AppointmentService/internal/api/middleware"
	"github.com/barber-crm/AppointmentService/internal/config"
	appointmentRepo "github.com/barber-crm/AppointmentService/internal/infra/storage/appointment"
	scheduleRepo "github.com/barber-crm/AppointmentService/internal/infra/storage/schedule"
	catalogServiceClient "github.com/barber-crm/AppointmentService/internal/integrations/catalogservice"
	userServiceClient "github.com/barber-crm/AppointmentService/internal/integrations/userservice"
	appointmentsService "github.com/barber-crm/AppointmentService/internal/service/appointments"
	scheduleService "github.com/barber-crm/AppointmentService/internal/service/schedule"
	createAppointmentUC "github.com/barber-crm/AppointmentService/internal/usecase/create_appointment"
	"github.com/barber-crm/AppointmentService/pkg/dbmetrics"
	"github.com/barber-crm/AppointmentService/pkg/logger"
	"github.com/barber-crm/AppointmentService/pkg/metrics"
	"github.com/barber-crm/AppointmentService/pkg/simpletxmanager"
	"github.com/barber-crm/AppointmentService/pkg/txmanager"
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

	log.Info("Starting AppointmentService...")
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
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, CatalogService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Инициализируем репозитории и транзакционный менеджер (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	// Общий интерфейс обоих вариантов transaction manager
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	apptSvc := appointmentsService.NewService(
		appointmentRepository,
		txMgr,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		appointmentRepository,
		catalogClient,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		userClient,
		catalogClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(apptSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(apptSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(apptSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(apptSvc, log)
	updateAppointmentStatus := updateStatusHandler.NewHandler(apptSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(apptSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(apptSvc, scheduleSvc, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Расписание мастера на день
	api.HandleFunc("/staff/{staffId}/schedule", getStaffSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Список записей (фильтры по дате/периоду или постранично)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи клиентом
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Подтверждение записи
	protected.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPatch)

	// Завершение записи
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)

	// Прямое обновление статуса (админская операция, включая no_show)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
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
