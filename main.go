package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cinema_reservation/config"
	"cinema_reservation/database"
	"cinema_reservation/handler"
	"cinema_reservation/helper"
	"cinema_reservation/logger"
	"cinema_reservation/middleware"
	"cinema_reservation/repository"
	"cinema_reservation/router"
	"cinema_reservation/service"
	"cinema_reservation/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(settings.Env); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	if err := database.ConnectDB(settings.DB); err != nil {
		logger.Log.Fatal("postgres unavailable", zap.Error(err))
	}
	if err := database.ConnectMongo(ctx, settings.Mongo); err != nil {
		logger.Log.Fatal("mongo unavailable", zap.Error(err))
	}
	if settings.Redis.Addr != "" {
		if err := database.ConnectRedis(ctx, settings.Redis); err != nil {
			logger.Log.Warn("redis unavailable, cache and live seat maps disabled", zap.Error(err))
		}
	}

	helper.ConfigureTokens(settings.JWT)
	helper.MovieListCache = helper.NewMovieCache(database.Redis, settings.CacheTTL)

	mailer := utils.NewSMTPMailer(settings.SMTP)
	handler.Mailer = mailer
	handler.FrontendURL = settings.FrontendURL
	handler.SecureCookies = !settings.IsDevelopment()

	catalog := repository.NewGormCatalog(database.DB)
	bookings := service.NewBookingService(
		catalog,
		repository.NewGormSeatInventory(database.DB),
		repository.NewMongoBookingStore(database.Mongo),
		repository.NewRedisSeatNotifier(database.Redis),
		mailer,
	)
	reviews := service.NewReviewService(catalog, repository.NewMongoReviewStore(database.Mongo))
	incidents := service.NewIncidentService(catalog, repository.NewMongoIncidentStore(database.Mongo))

	var gateway helper.PaymentGateway = &helper.MockGateway{Currency: settings.StripeCurrency}
	if settings.StripeSecretKey != "" {
		stripeGateway, err := helper.NewStripeGateway(settings.StripeSecretKey, settings.StripeCurrency)
		if err != nil {
			logger.Log.Fatal("stripe", zap.Error(err))
		}
		gateway = stripeGateway
	} else {
		logger.Log.Warn("STRIPE_SECRET_KEY not set, payments use the mock gateway")
	}

	var cld *cloudinary.Cloudinary
	if settings.CloudinaryCloudName != "" {
		cld, err = helper.InitCloudinary(settings)
		if err != nil {
			logger.Log.Warn("cloudinary disabled", zap.Error(err))
			cld = nil
		}
	}
	helper.Media = cld

	sessions := helper.NewSessionScheduler(database.DB)
	if err := sessions.Start(); err != nil {
		logger.Log.Fatal("session scheduler", zap.Error(err))
	}
	tokenCleanup, err := helper.StartTokenCleanupScheduler(database.DB)
	if err != nil {
		logger.Log.Fatal("token cleanup scheduler", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "cinema_reservation",
		ErrorHandler: utils.ErrorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: !strings.Contains(settings.CorsOrigins, "*"),
		ExposeHeaders:    "Set-Cookie, X-Cache",
		MaxAge:           600,
	}))
	app.Use(middleware.Logger(logger.Log))

	router.SetupRoutes(app, router.Handlers{
		Bookings:  handler.NewBookingHandler(bookings),
		Reviews:   handler.NewReviewHandler(reviews),
		Incidents: handler.NewIncidentHandler(incidents),
		Payments:  handler.NewPaymentHandler(gateway),
		Uploads:   handler.NewUploadHandler(cld),
	})

	go func() {
		if err := app.Listen(":" + settings.Port); err != nil {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()
	logger.Log.Info("server started", zap.String("port", settings.Port), zap.String("env", settings.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Log.Error("shutdown server", zap.Error(err))
	}
	sessions.Stop()
	if err := tokenCleanup.Shutdown(); err != nil {
		logger.Log.Warn("stop token cleanup scheduler", zap.Error(err))
	}
	database.Close(shutdownCtx)
}
