package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"certback/internal/config"
	"certback/internal/handlers"
	"certback/internal/middleware"
	"certback/internal/pdf"
	"certback/internal/repositories"
	"certback/internal/routes"
	"certback/internal/services"
	"certback/internal/utils"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "certback/docs"
)

func Run() {
	cfg := config.LoadConfig()

	middleware.SetJWTKey(cfg.Admin.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("db open failed: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("db close: %v", err)
		}
	}()

	// === Redis (опционально, только rate limit) ===
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("redis url: ", err)
		}
		rdb = redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, rate limit disabled: %v", err)
			rdb = nil
		}
		cancel()
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	regRepo := repositories.NewRegistrationRepository(db)
	verifRepo := repositories.NewVerificationRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	accessRepo := repositories.NewAccessCodeRepository(db)
	outboxRepo := repositories.NewOutboxRepository(db)

	// === Delivery ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	whatsappClient := utils.NewWhatsAppClient(cfg.WhatsApp.Token, cfg.WhatsApp.PhoneID, cfg.WhatsApp.DryRun)
	telegramService := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	// === Services ===
	registrationService := services.NewRegistrationService(regRepo, userRepo, verifRepo, outboxRepo, cfg.Server.BaseURL)
	verificationService := services.NewVerificationService(verifRepo, userRepo)
	accessService := services.NewAccessCodeService(accessRepo, userRepo, emailService, whatsappClient)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, accessService, telegramService)
	authService := services.NewAuthService(cfg.Admin.Email, cfg.Admin.PasswordHash, time.Duration(cfg.Admin.TokenTTL)*time.Hour)

	pdfGen := pdf.NewCatalogGenerator(cfg.Files.FontPath)

	// === Outbox dispatcher ===
	dispatcher := services.NewOutboxDispatcher(outboxRepo, emailService, whatsappClient, paymentService)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	// === Handlers ===
	registerHandler := handlers.NewRegisterHandler(registrationService)
	verifyHandler := handlers.NewVerifyHandler(verificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg.Payments.WebhookSecret)
	accessHandler := handlers.NewAccessHandler(accessService)
	adminHandler := handlers.NewAdminHandler(authService, paymentService)
	productHandler := handlers.NewProductHandler(cfg.Files.ProductsDir, pdfGen)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		registerHandler,
		verifyHandler,
		paymentHandler,
		accessHandler,
		adminHandler,
		productHandler,
		rdb,
		cfg.Files.ProductsDir,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("API listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server start failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
