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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/cancel_booking"
	capturePaymentHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/capture_payment"
	createBookingHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/create_booking"
	createInvoiceHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/create_invoice"
	createSupportTicketHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/create_support_ticket"
	getAvailableSlotsHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_booking"
	getBookingsForDateHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_bookings_for_date"
	getInvoicesHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_invoices"
	getJobsHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_jobs"
	getReconciliationCasesHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_reconciliation_cases"
	getSupportTicketsHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_support_tickets"
	getUserBookingsHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/get_user_bookings"
	paymentMethodsHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/payment_methods"
	updateInvoiceStatusHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/update_invoice_status"
	updateJobHandler "github.com/m04kA/HomeService-Booking/internal/api/handlers/update_job"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/calendar"
	"github.com/m04kA/HomeService-Booking/internal/config"
	"github.com/m04kA/HomeService-Booking/internal/domain"
	bookingRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/customer"
	invoiceRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/invoice"
	jobRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/job"
	reconciliationRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/reconciliation"
	supportRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/support"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
	"github.com/m04kA/HomeService-Booking/internal/integrations/notify"
	"github.com/m04kA/HomeService-Booking/internal/integrations/stripe"
	bookingsService "github.com/m04kA/HomeService-Booking/internal/service/bookings"
	invoicesService "github.com/m04kA/HomeService-Booking/internal/service/invoices"
	jobsService "github.com/m04kA/HomeService-Booking/internal/service/jobs"
	paymentsService "github.com/m04kA/HomeService-Booking/internal/service/payments"
	reconciliationService "github.com/m04kA/HomeService-Booking/internal/service/reconciliation"
	supportService "github.com/m04kA/HomeService-Booking/internal/service/support"
	capturePaymentUC "github.com/m04kA/HomeService-Booking/internal/usecase/capture_payment"
	createBookingUC "github.com/m04kA/HomeService-Booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/HomeService-Booking/internal/usecase/get_available_slots"
	"github.com/m04kA/HomeService-Booking/pkg/dbmetrics"
	"github.com/m04kA/HomeService-Booking/pkg/logger"
	"github.com/m04kA/HomeService-Booking/pkg/metrics"
	"github.com/m04kA/HomeService-Booking/pkg/txmanager"
)

// Публикация событий бронирований
type bookingPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// Уведомление службы поддержки
type supportNotifier interface {
	NotifySupportTicket(ctx context.Context, ticket *domain.SupportTicket) error
}

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

	log.Info("Starting HomeService-Booking...")

	// Метрики нужны usecase'ам всегда; наружу отдаются только если включены
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		metricsCollector = metrics.NewWithRegisterer(cfg.Metrics.ServiceName, prometheus.NewRegistry())
	}
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	jobRepository := jobRepo.NewRepository(wrappedDB)
	invoiceRepository := invoiceRepo.NewRepository(wrappedDB)
	supportRepository := supportRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	reconciliationRepository := reconciliationRepo.NewRepository(wrappedDB)

	// Интеграции
	gateway := stripe.NewClient(
		cfg.Stripe.SecretKey,
		cfg.Stripe.APIURL,
		time.Duration(cfg.Stripe.Timeout)*time.Second,
		log,
		metricsCollector,
	)
	log.Info("Payment gateway initialized (timeout=%ds)", cfg.Stripe.Timeout)

	var publisher bookingPublisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		amqpPublisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			log.Warn("Events disabled, failed to connect to broker: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
			log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
		}
	}

	var notifier supportNotifier = notify.NopNotifier{}
	if cfg.Notify.Enabled {
		notifier = notify.NewSupportNotifier(notify.Config{
			APIKey:       cfg.Notify.SendGridKey,
			FromEmail:    cfg.Notify.FromEmail,
			FromName:     cfg.Notify.FromName,
			SupportInbox: cfg.Notify.SupportInbox,
		}, log)
		log.Info("Support notifications enabled (inbox=%s)", cfg.Notify.SupportInbox)
	}

	location := cfg.BookingLocation()
	rules := calendar.Rules{
		LeadTimeHours: cfg.Booking.LeadTimeHours,
		CutoffHour:    cfg.Booking.CutoffHour,
		BufferSlots:   cfg.Booking.BufferSlots,
	}

	// Сервисы
	paymentSvc := paymentsService.NewService(customerRepository, gateway, log)
	reconciliationSvc := reconciliationService.NewService(reconciliationRepository, metricsCollector, log)
	bookingSvc := bookingsService.NewService(bookingRepository, jobRepository, gateway, publisher, txMgr, log)
	jobSvc := jobsService.NewService(jobRepository, log)
	invoiceSvc := invoicesService.NewService(invoiceRepository, jobRepository, cfg.Stripe.Currency, location, log)
	supportSvc := supportService.NewService(supportRepository, jobRepository, notifier, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		rules,
		cfg.Booking.AdvanceDays,
		location,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		jobRepository,
		paymentSvc,
		gateway,
		reconciliationSvc,
		publisher,
		metricsCollector,
		txMgr,
		rules,
		createBookingUC.Options{
			AdvanceDays:  cfg.Booking.AdvanceDays,
			DepositCents: cfg.Booking.DepositCents,
			Currency:     cfg.Stripe.Currency,
			Location:     location,
		},
		log,
	)
	capturePaymentUseCase := capturePaymentUC.NewUseCase(
		bookingRepository,
		gateway,
		publisher,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getJobs := getJobsHandler.NewHandler(jobSvc, log)
	getInvoices := getInvoicesHandler.NewHandler(invoiceSvc, log)
	createSupportTicket := createSupportTicketHandler.NewHandler(supportSvc, log)
	getSupportTickets := getSupportTicketsHandler.NewHandler(supportSvc, log)
	paymentMethods := paymentMethodsHandler.NewHandler(paymentSvc, log)
	capturePayment := capturePaymentHandler.NewHandler(capturePaymentUseCase, log)
	getBookingsForDate := getBookingsForDateHandler.NewHandler(bookingSvc, log)
	updateJob := updateJobHandler.NewHandler(jobSvc, log)
	createInvoice := createInvoiceHandler.NewHandler(invoiceSvc, log)
	updateInvoiceStatus := updateInvoiceStatusHandler.NewHandler(invoiceSvc, log)
	getReconciliationCases := getReconciliationCasesHandler.NewHandler(reconciliationSvc, log)

	// Ограничение частоты подтверждения бронирований
	var bookingCommit http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, rate limit fails open: %v", cfg.Redis.Addr, err)
		}

		limiter := middleware.NewRateLimiter(redisClient, "bookings", cfg.Redis.RateLimitPerMinute, time.Minute, log)
		bookingCommit = limiter.Limit(bookingCommit)
		log.Info("Booking rate limit enabled: %d per minute", cfg.Redis.RateLimitPerMinute)
	}

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AdminRole, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recover(log))
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := wrappedDB.PingContext(r.Context()); err != nil {
			log.Error("GET /health - Database unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// CUSTOMER ROUTES (Bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Authenticate)

	// --- Бронирования ---
	protected.Handle("/bookings", bookingCommit).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Задания, счета, обращения ---
	protected.HandleFunc("/jobs", getJobs.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/invoices", getInvoices.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/support-tickets", createSupportTicket.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/support-tickets", getSupportTickets.Handle).Methods(http.MethodGet)

	// --- Карты ---
	protected.HandleFunc("/payment-methods", paymentMethods.List).Methods(http.MethodGet)
	protected.HandleFunc("/payment-methods", paymentMethods.Add).Methods(http.MethodPost)
	protected.HandleFunc("/payment-methods/{paymentMethodId}", paymentMethods.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/payment-methods/{paymentMethodId}/default", paymentMethods.SetDefault).Methods(http.MethodPut)

	// ============================================================
	// ADMIN ROUTES (роль администратора)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Authenticate, auth.RequireAdmin)

	admin.HandleFunc("/bookings", getBookingsForDate.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/capture", capturePayment.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/jobs/{jobId:[0-9]+}", updateJob.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/invoices", createInvoice.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/invoices/{invoiceId}/status", updateInvoiceStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reconciliation", getReconciliationCases.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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

	close(stopMetricsCh)

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
