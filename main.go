package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradelink/config"
	"tradelink/cron"
	"tradelink/database"
	"tradelink/handlers"
	"tradelink/middleware"
	"tradelink/routes"
	"tradelink/services/directory"
	"tradelink/services/payment"
	"tradelink/services/registration"
	"tradelink/services/tasks"
	"tradelink/services/user"
	"tradelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	backend, err := database.OpenStorage(logger)
	if err != nil {
		logger.Fatal("main: failed to open storage", zap.Error(err))
	}

	store := directory.NewStore(ctx, backend, logger.Named("directory"), directory.Options{
		Key:            cfg.DirectoryKey,
		StrictNotFound: cfg.StrictNotFound,
	})
	users := user.NewUserService(backend, cfg.UserKey, logger.Named("user"))

	// Hosted checkout: Stripe when prices are configured, fixed links otherwise.
	var links payment.LinkProvider = payment.StaticLinks{
		Monthly: cfg.PaymentLinkMonthly,
		Yearly:  cfg.PaymentLinkYearly,
	}
	if cfg.StripeKey != "" && cfg.StripePriceMonthly != "" && cfg.StripePriceYearly != "" {
		stripe.Key = cfg.StripeKey
		links = payment.NewStripeLinks(cfg.StripePriceMonthly, cfg.StripePriceYearly, logger.Named("payment"))
	}

	// Subscription expiry: queued tasks with Redis, a periodic sweep without.
	regCfg := registration.Config{
		ProcessingDelay: cfg.WizardProcessingDelay,
		SuccessDelay:    cfg.WizardSuccessDelay,
		Links:           links,
		Logger:          logger.Named("registration"),
		SessionTTL:      cfg.SessionTTL,
	}
	var worker *asynq.Server
	var queueClient *asynq.Client
	if cfg.EnableExpiryQueue {
		queueClient = asynq.NewClient(cron.QueueRedisOpt())
		regCfg.Expiry = tasks.NewExpiryScheduler(queueClient)
		worker = cron.InitExpiryWorker(store, logger.Named("expiry"))
	} else {
		go cron.NewSweeper(store, cfg.ExpirySweepInterval, logger.Named("sweeper")).Run(ctx)
	}

	sessions := registration.NewManager(store, regCfg)
	go cron.NewSessionReaper(sessions, cfg.SessionReapInterval, logger.Named("sessions")).Run(ctx)

	healthDeps := map[string]utils.Pinger{"storage": backend}
	if queueClient != nil {
		healthDeps["queue"] = utils.PingFunc(func(context.Context) error { return queueClient.Ping() })
	}
	utils.StartHealthMonitor(ctx, healthDeps, time.Minute)

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewDirectoryHandler(store),
		handlers.NewRegistrationHandler(sessions),
		handlers.NewAuthHandler(users),
		handlers.NewHealthHandler(healthDeps),
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(handlers.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	stop()
	sessions.Shutdown()
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: failed to close database", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
