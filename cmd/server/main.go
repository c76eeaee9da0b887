package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cargoconnect/marketplace-api/internal/api"
	"github.com/cargoconnect/marketplace-api/internal/core/moderation"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
	"github.com/cargoconnect/marketplace-api/internal/core/service"
	"github.com/cargoconnect/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/cargoconnect/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/cargoconnect/marketplace-api/internal/infrastructure/db/redis"
	"github.com/cargoconnect/marketplace-api/internal/infrastructure/geo"
	"github.com/cargoconnect/marketplace-api/internal/infrastructure/payments"
	"github.com/cargoconnect/marketplace-api/internal/infrastructure/queue"
	"github.com/cargoconnect/marketplace-api/internal/infrastructure/stream"
	"github.com/cargoconnect/marketplace-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// Repositories and their indexes.
	requestRepo := mongodb.NewRequestRepository(db)
	offerRepo := mongodb.NewOfferRepository(db)
	chatRepo := mongodb.NewChatRepository(db)
	verificationRepo := mongodb.NewVerificationRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)
	ratingRepo := mongodb.NewRatingRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	for _, r := range []indexer{
		requestRepo, offerRepo, chatRepo, verificationRepo,
		notificationRepo, ratingRepo, userRepo, paymentRepo,
	} {
		if err := r.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	// Optional audit stream.
	var publisher ports.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := stream.NewEventProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka audit stream enabled")
	}

	// Notification pipeline: services write events through the dispatcher,
	// workers fan them into the notification store.
	notificationService := service.NewNotificationService(notificationRepo, log)
	dispatcher := queue.NewDispatcher(cfg.Dispatcher.Workers, notificationService, publisher, log)
	dispatcher.Start(ctx)

	locker := redisdb.NewRequestLocker(rdb)
	filter := moderation.New(moderation.Config{MinDigitRun: cfg.Moderation.MinDigitRun})

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	requestService := service.NewRequestService(requestRepo, offerRepo, locker, log)
	offerService := service.NewOfferService(offerRepo, requestRepo, locker, dispatcher, log)
	chatService := service.NewChatService(chatRepo, requestRepo, offerRepo, filter, dispatcher, log)
	verificationService := service.NewVerificationService(verificationRepo, userRepo, dispatcher, log)
	ratingService := service.NewRatingService(ratingRepo, requestRepo, offerRepo, userRepo, log)

	gateway := payments.NewStripeGateway(cfg.Stripe.APIKey)
	paymentService := service.NewPaymentService(paymentRepo, offerRepo, gateway, dispatcher, log)

	// Optional display enrichment.
	var estimator ports.RouteEstimator
	if cfg.Geo.GeocodeEndpoint != "" && cfg.Geo.RouteEndpoint != "" {
		estimator = geo.NewClient(cfg.Geo.GeocodeEndpoint, cfg.Geo.RouteEndpoint)
	}

	e := api.NewRouter(api.Deps{
		DB:            db,
		Redis:         rdb,
		Auth:          authService,
		Requests:      requestService,
		Offers:        offerService,
		Chat:          chatService,
		Verification:  verificationService,
		Notifications: notificationService,
		Ratings:       ratingService,
		Payments:      paymentService,
		Estimator:     estimator,
		PaymentOrigin: cfg.Stripe.OriginURL,
		JWTSecret:     cfg.JWTSecret,
		Logger:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
