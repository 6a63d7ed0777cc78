// File: mentorhub/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentorhub/config"
	"mentorhub/cron"
	"mentorhub/database"
	disputeRepoPkg "mentorhub/database/repository/dispute"
	paymentRepoPkg "mentorhub/database/repository/payment"
	profileRepoPkg "mentorhub/database/repository/profile"
	sessionRepoPkg "mentorhub/database/repository/session"
	slotRepoPkg "mentorhub/database/repository/slot"
	"mentorhub/handlers"
	"mentorhub/routes"
	"mentorhub/services/booking"
	"mentorhub/services/meeting"
	"mentorhub/services/notification"
	"mentorhub/services/payment"
	"mentorhub/services/recording"
	"mentorhub/services/settlement"
	"mentorhub/services/storage"
	"mentorhub/services/tasks"
	"mentorhub/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	cld, err := cloudinary.NewFromParams(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary: %v", err)
	}
	storageService := storage.NewCloudinaryStorageService(cld,
		config.AppConfig.CloudinaryCloudName, config.AppConfig.CloudinaryAPISecret)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()
	disputeRepo := disputeRepoPkg.NewMongoDisputeRepo()
	profileRepo := profileRepoPkg.NewMongoProfileRepo()

	// Task queue client for background work.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	enqueuer := tasks.NewAsynqEnqueuer(asynqClient)

	deduper := utils.NewRedisEventDeduper(utils.GetCacheClient(), "webhook", 72*time.Hour)

	// services.
	notificationService, err := notification.NewDefaultNotificationService(profileRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	paymentService := &payment.DefaultPaymentService{
		Payments:      paymentRepo,
		Sessions:      sessionRepo,
		Gateway:       payment.NewStripeGateway(),
		Deduper:       deduper,
		Enqueuer:      enqueuer,
		Notifications: notificationService,
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
		Logger:        logger,
	}

	settlementService := &settlement.DefaultSettlementService{
		Payments:      paymentRepo,
		Sessions:      sessionRepo,
		Disputes:      disputeRepo,
		Refunder:      paymentService,
		Notifications: notificationService,
		Logger:        logger,
	}

	bookingService := &booking.DefaultBookingService{
		Slots:         slotRepo,
		Sessions:      sessionRepo,
		Payments:      paymentRepo,
		PaymentSvc:    paymentService,
		Rates:         profileRepo,
		Notifications: notificationService,
		Logger:        logger,
	}

	provider := meeting.NewZoomProvider(
		config.AppConfig.MeetingAPIBaseURL,
		config.AppConfig.MeetingAPIToken,
	)
	meetingService := &meeting.DefaultMeetingService{
		Sessions:      sessionRepo,
		Provider:      provider,
		Settlement:    settlementService,
		Enqueuer:      enqueuer,
		Notifications: notificationService,
		WebhookSecret: config.AppConfig.MeetingWebhookSecret,
		Logger:        logger,
	}

	summarizer, err := recording.NewGeminiSummarizer(config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize summarizer: %v", err)
	}
	pipelineService := &recording.DefaultPipelineService{
		Sessions:    sessionRepo,
		Downloader:  provider,
		Storage:     storageService,
		Transcriber: recording.NewGoogleTranscriber(config.AppConfig.GoogleServiceAccountFile),
		Summarizer:  summarizer,
		Logger:      logger,
	}

	// handlers.
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	meetingHandler := handlers.NewMeetingHandler(meetingService, pipelineService, logger)
	settlementHandler := handlers.NewSettlementHandler(settlementService, logger)
	webhookHandler := handlers.NewWebhookHandler(paymentService, meetingService, logger)

	handlerBundle := &handlers.HandlerBundle{
		BookSession:       bookingHandler.BookSession,
		CancelSession:     bookingHandler.CancelSession,
		GetAvailableSlots: bookingHandler.GetAvailableSlots,
		CreateTimeSlots:   bookingHandler.CreateTimeSlots,
		DeleteTimeSlot:    bookingHandler.DeleteTimeSlot,

		CreateIntent:   paymentHandler.CreateIntent,
		ConfirmPayment: paymentHandler.ConfirmPayment,
		RefundPayment:  paymentHandler.RefundPayment,
		GetPayment:     paymentHandler.GetPayment,

		EndMeeting:         meetingHandler.EndMeeting,
		RetryTranscription: meetingHandler.RetryTranscription,

		RequestPayout:  settlementHandler.RequestPayout,
		ProcessPayout:  settlementHandler.ProcessPayout,
		CancelPayout:   settlementHandler.CancelPayout,
		CreateDispute:  settlementHandler.CreateDispute,
		ResolveDispute: settlementHandler.ResolveDispute,

		PaymentWebhook: webhookHandler.PaymentWebhook,
		MeetingWebhook: webhookHandler.MeetingWebhook,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background worker and periodic sweeps.
	cron.InitWorker(meetingService, pipelineService, settlementService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
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
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
	logger.Info("Server exited")
}
