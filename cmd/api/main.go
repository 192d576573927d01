package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/chopnowhq/chopnow-backend/api/routes"
	"github.com/chopnowhq/chopnow-backend/internal/directory"
	"github.com/chopnowhq/chopnow-backend/internal/fees"
	"github.com/chopnowhq/chopnow-backend/internal/menu"
	"github.com/chopnowhq/chopnow-backend/internal/notifications"
	"github.com/chopnowhq/chopnow-backend/internal/orders"
	"github.com/chopnowhq/chopnow-backend/internal/payments"
	"github.com/chopnowhq/chopnow-backend/internal/reservations"
	paystackwebhook "github.com/chopnowhq/chopnow-backend/internal/webhooks/paystack"
	"github.com/chopnowhq/chopnow-backend/pkg/clock"
	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/db"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
	"github.com/chopnowhq/chopnow-backend/pkg/mail"
	"github.com/chopnowhq/chopnow-backend/pkg/metrics"
	"github.com/chopnowhq/chopnow-backend/pkg/migrate"
	"github.com/chopnowhq/chopnow-backend/pkg/paystack"
	"github.com/chopnowhq/chopnow-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	paystackClient, err := paystack.NewClient(context.Background(), cfg.Paystack, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	mailer, err := mail.NewSMTPMailer(cfg.Mail)
	if err != nil {
		logg.Error(context.Background(), "failed to create smtp mailer", err)
		os.Exit(1)
	}

	apiMetrics := metrics.NewAPIMetrics()
	sysClock := clock.System{}

	calculator, err := fees.NewCalculator(cfg.Delivery)
	if err != nil {
		logg.Error(context.Background(), "failed to build fee calculator", err)
		os.Exit(1)
	}

	directoryService, err := directory.NewService(directory.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create directory service", err)
		os.Exit(1)
	}

	menuService, err := menu.NewService(menu.NewRepository(dbClient.DB()), redisClient, cfg.Cache, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu service", err)
		os.Exit(1)
	}

	feeService, err := fees.NewService(directoryService, calculator, sysClock)
	if err != nil {
		logg.Error(context.Background(), "failed to create fee service", err)
		os.Exit(1)
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	orderService, err := orders.NewService(orderRepo, dbClient, directoryService, calculator, sysClock, apiMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(orderService, paystackClient, cfg.Paystack, sysClock)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	reservationService, err := reservations.NewService(reservations.NewRepository(dbClient.DB()), directoryService, sysClock)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(mailer, cfg.Mail, cfg.Notifications, logg, apiMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	webhookService, err := paystackwebhook.NewService(orderRepo, notificationService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := paystackwebhook.NewIdempotencyGuard(redisClient, cfg.Cache.WebhookTTL, "paystack")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DBPinger:       dbClient,
			CachePinger:    redisClient,
			Sessions:       redisClient,
			Metrics:        apiMetrics,
			Menu:           menuService,
			Directory:      directoryService,
			Fees:           feeService,
			Orders:         orderService,
			Payments:       paymentService,
			Reservations:   reservationService,
			PaystackClient: paystackClient,
			WebhookService: webhookService,
			WebhookGuard:   webhookGuard,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
