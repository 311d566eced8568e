package main

import (
	"log"
	"net/http"
	"time"

	"deveventshub/config"
	_ "deveventshub/docs"
	"deveventshub/internal/adapters/analytics"
	"deveventshub/internal/adapters/email"
	"deveventshub/internal/adapters/storage"
	httpdelivery "deveventshub/internal/delivery/http"
	"deveventshub/internal/delivery/http/controllers"
	"deveventshub/internal/delivery/http/middleware"
	"deveventshub/internal/repository/postgres"
	"deveventshub/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Dev Events Hub API
// @version 1.0
// @description Event discovery and booking API: organizers publish developer events, visitors browse and book by email.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		log.Fatalf("create mailer: %v", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	imageStore, err := storage.NewImageStore(storage.Config{
		Provider: cfg.ImageProvider,
		S3: storage.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		},
	})
	if err != nil {
		log.Fatalf("create image store: %v", err)
	}

	sink := analytics.NewSink(analytics.Config{
		Provider:   cfg.AnalyticsProvider,
		WebhookURL: cfg.AnalyticsWebhookURL,
	}, nil)

	eventService := services.NewEventService(eventRepo, serviceTimeout)
	bookingService := services.NewBookingService(bookingRepo, eventRepo, emailService, sink, serviceTimeout)

	eventController := controllers.NewEventController(logger, eventService, imageStore)
	bookingController := controllers.NewBookingController(logger, bookingService)

	mux := httpdelivery.NewRouter(eventController, bookingController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
