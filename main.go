package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wheatstraw-backend/config"
	"wheatstraw-backend/controllers"
	"wheatstraw-backend/database"
	"wheatstraw-backend/logger"
	"wheatstraw-backend/models"
	awspkg "wheatstraw-backend/pkg/aws"
	"wheatstraw-backend/repository"
	"wheatstraw-backend/routes"
	"wheatstraw-backend/services"
	"wheatstraw-backend/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog := logger.Initialize(cfg.Environment)
	defer zlog.Sync()

	db, err := database.ConnectPostgres(cfg, zlog,
		&models.Order{},
		&models.ProductOption{},
		&models.CreditTransaction{},
	)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	orderRepo := repository.NewGormOrderRepository(db)
	optionRepo := repository.NewGormOptionRepository(db)
	creditRepo := repository.NewGormCreditRepository(db)
	draftRepo := repository.NewDraftRepository(redisClient, cfg.DraftTTL)

	if err := optionRepo.SeedDefaults(context.Background()); err != nil {
		zlog.Fatal("Failed to seed product options", zap.Error(err))
	}

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)

	var snsPublisher awspkg.SNSPublisher
	if cfg.PaymentSNSTopicARN != "" {
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			zlog.Fatal("Failed to load AWS config", zap.Error(err))
		}
		snsPublisher = awspkg.NewSNSClient(awsCfg)
	}

	checkoutSvc := services.NewCheckoutService(orderRepo, optionRepo, draftRepo, stripeSvc, cfg.FrontendURL, zlog)
	orderSvc := services.NewOrderService(orderRepo, zlog)
	creditSvc := services.NewCreditService(creditRepo, zlog)

	validator := controllers.NewRequestValidator()
	ctrl := &routes.Controllers{
		Checkout: &controllers.CheckoutController{Checkout: checkoutSvc, Validator: validator},
		Orders:   &controllers.OrderController{Orders: orderSvc, Validator: validator},
		Options:  &controllers.OptionController{Options: optionRepo, Logger: zlog},
		Credits:  &controllers.CreditController{Credits: creditSvc, Validator: validator},
		Drafts:   &controllers.DraftController{Drafts: draftRepo, Logger: zlog},
		Webhook: &controllers.WebhookController{
			Stripe:   stripeSvc,
			Orders:   orderSvc,
			SNS:      snsPublisher,
			TopicArn: cfg.PaymentSNSTopicARN,
			Logger:   zlog,
		},
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zlog))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, ctrl, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := worker.NewReconciliationWorker(orderRepo, orderSvc, stripeSvc, cfg.ReconcileInterval, cfg.ReconcileCutoff, zlog)
	go reconciler.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zlog.Info("Server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
}
