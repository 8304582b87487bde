package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablebook/config"
	"tablebook/cron"
	"tablebook/database"
	sessionRepo "tablebook/database/repository/bookingsession"
	gateRepo "tablebook/database/repository/gatestate"
	listCacheRepo "tablebook/database/repository/listcache"
	userRepoPkg "tablebook/database/repository/user"
	"tablebook/handlers"
	"tablebook/middleware"
	"tablebook/routes"
	"tablebook/services/backend"
	"tablebook/services/booking"
	"tablebook/services/bot"
	"tablebook/services/gate"
	"tablebook/services/notification"
	"tablebook/services/tasks"
	"tablebook/services/user"
	"tablebook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	database.InitDB()
	utils.InitRedis()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	authSessions := utils.RedisAuthSessions{Client: utils.GetAuthCacheClient()}
	gateStore := gateRepo.NewRedisGateStore(utils.GetCacheClient(), cfg.GateSessionTTL)
	formStore := sessionRepo.NewRedisSessionStore(utils.GetBookingCacheClient(), cfg.BookingSessionTTL)
	listCache := listCacheRepo.NewRedisListCache(utils.GetCacheClient(), cfg.ListCacheTTL)

	// services.
	userService := &user.DefaultUserService{
		Repo:           userRepo,
		Sessions:       authSessions,
		BotToken:       cfg.TelegramBotToken,
		InitDataMaxAge: cfg.InitDataMaxAge,
		TokenTTL:       cfg.TokenTTL,
	}
	gateService := gate.NewDefaultGateService(gateStore, userService, logger)
	bookingAPI := backend.NewCachedClient(backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout), listCache, logger)

	// Telegram bot, confirmations and reminders are optional: without a token the
	// mini app still books, it just sends no messages.
	var (
		notifier       booking.Notifier
		reminders      booking.ReminderScheduler
		reminderSrv    *asynq.Server
		reminderClient *asynq.Client
	)
	if cfg.TelegramBotToken != "" {
		telegramBot, err := bot.NewTelegramBot(cfg.TelegramBotToken, cfg.TelegramBotName, cfg.TelegramAppName, cfg.TelegramDebug, logger)
		if err != nil {
			logger.Fatal("main: failed to initialize telegram bot", zap.Error(err))
		}
		// Polling stops when ctx is cancelled.
		if err := telegramBot.Start(ctx); err != nil {
			logger.Fatal("main: failed to start telegram bot", zap.Error(err))
		}

		notificationService, err := notification.NewTelegramNotificationService(telegramBot.API(), config.Location(), logger)
		if err != nil {
			logger.Fatal("main: failed to initialize notifications", zap.Error(err))
		}
		notifier = notificationService

		reminderClient = asynq.NewClient(cron.ReminderRedisOpt())
		reminders = tasks.NewReminderScheduler(reminderClient)
		reminderSrv = cron.InitReminderWorker(ctx, notificationService)
	} else {
		logger.Warn("main: TELEGRAM_BOT_TOKEN is empty, bot and reminders are disabled")
	}

	bookingService := booking.NewDefaultBookingSessionService(
		bookingAPI,
		formStore,
		userService,
		notifier,
		reminders,
		booking.Options{
			Location:         config.Location(),
			LeadDays:         cfg.BookingLeadDays,
			ValidationWindow: cfg.ValidationDisplayWindow,
			CommChannel:      cfg.CommChannel,
			Logger:           logger,
		},
		cfg.BookingSessionTTL,
		cfg.ReminderLead,
	)
	go bookingService.RunSweeper(ctx, time.Minute)

	utils.StartHealthMonitor(ctx, utils.RedisClients(), database.MongoClient)

	userHandler := handlers.NewUserHandler(userService)
	gateHandler := handlers.NewGateHandler(gateService)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		AuthSessions:  authSessions,
		HealthHandler: handlers.HealthHandler,

		// Auth and profile endpoints.
		TelegramAuthHandler:       userHandler.TelegramAuthHandler,
		SignOutHandler:            userHandler.SignOutHandler,
		GetMeHandler:              userHandler.GetMeHandler,
		UpdatePhoneHandler:        userHandler.UpdatePhoneHandler,
		CompleteOnboardingHandler: userHandler.CompleteOnboardingHandler,

		// Gate endpoint.
		EvaluateGateHandler: gateHandler.EvaluateGateHandler,

		// Booking endpoints.
		InitiateSession: bookingHandler.InitiateSession,
		GetSession:      bookingHandler.GetSession,
		UpdateSession:   bookingHandler.UpdateSession,
		RetrySlots:      bookingHandler.RetrySlots,
		SelectPartition: bookingHandler.SelectPartition,
		DismissPopup:    bookingHandler.DismissPopup,
		SubmitBooking:   bookingHandler.SubmitBooking,
		CancelSession:   bookingHandler.CancelSession,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
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
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if reminderSrv != nil {
		reminderSrv.Shutdown()
	}
	if reminderClient != nil {
		_ = reminderClient.Close()
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}
