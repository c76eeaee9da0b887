package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cargoconnect/marketplace-api/internal/api/handler"
	"github.com/cargoconnect/marketplace-api/internal/api/middleware"
	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

// Deps carries everything the router needs. Services are constructed in
// main so the wiring order (repos, queue, services) stays in one place.
type Deps struct {
	DB    *mongo.Database
	Redis *redis.Client

	Auth          ports.AuthService
	Requests      ports.RequestService
	Offers        ports.OfferService
	Chat          ports.ChatService
	Verification  ports.VerificationService
	Notifications ports.NotificationService
	Ratings       ports.RatingService
	Payments      ports.PaymentService

	// Estimator is nil when no geo services are configured.
	Estimator     ports.RouteEstimator
	PaymentOrigin string

	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	authHandler := handler.NewAuthHandler(d.Auth)
	requestHandler := handler.NewRequestHandler(d.Requests, d.Estimator, d.Logger)
	offerHandler := handler.NewOfferHandler(d.Offers)
	chatHandler := handler.NewChatHandler(d.Chat)
	verificationHandler := handler.NewVerificationHandler(d.Verification)
	notificationHandler := handler.NewNotificationHandler(d.Notifications)
	ratingHandler := handler.NewRatingHandler(d.Ratings)
	paymentHandler := handler.NewPaymentHandler(d.Payments, d.PaymentOrigin)

	// Probes and operational endpoints, no auth.
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.DB, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// Public auth routes.
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// Everything below requires a valid token.
	authed := v1.Group("", middleware.Auth(d.JWTSecret))

	authed.GET("/auth/me", authHandler.Me)

	authed.POST("/requests", requestHandler.Create)
	authed.GET("/requests", requestHandler.List)
	authed.GET("/requests/mine", requestHandler.ListMine)
	authed.GET("/requests/:id", requestHandler.Get)
	authed.GET("/requests/:id/route", requestHandler.Route)
	authed.PATCH("/requests/:id/transit", requestHandler.MarkInTransit)
	authed.PATCH("/requests/:id/complete", requestHandler.MarkCompleted)
	authed.PATCH("/requests/:id/cancel", requestHandler.Cancel)

	authed.POST("/offers", offerHandler.Submit)
	authed.GET("/offers/mine", offerHandler.ListMine)
	authed.POST("/offers/:id/accept", offerHandler.Accept)
	authed.POST("/offers/:id/reject", offerHandler.Reject)
	authed.GET("/requests/:id/offers", offerHandler.ListByRequest)

	authed.POST("/requests/:id/messages", chatHandler.Post)
	authed.GET("/requests/:id/messages", chatHandler.List)

	authed.POST("/verification/identity", verificationHandler.SubmitIdentity)
	authed.POST("/verification/vehicle", verificationHandler.SubmitVehicle)
	authed.GET("/verification/status", verificationHandler.MyStatus)

	authed.GET("/notifications", notificationHandler.List)
	authed.PATCH("/notifications/read", notificationHandler.MarkAllRead)
	authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead)

	authed.POST("/ratings", ratingHandler.Submit)
	authed.GET("/users/:id/ratings", ratingHandler.ListForUser)

	authed.POST("/payments/subscription", paymentHandler.StartSubscription)
	authed.POST("/payments/commission", paymentHandler.StartCommission)
	authed.GET("/payments/sessions/:id", paymentHandler.PollStatus)

	// Adjudication is admin-only.
	admin := authed.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/verifications", verificationHandler.ListAll)
	admin.PATCH("/verifications/:id", verificationHandler.Adjudicate)

	return e
}
