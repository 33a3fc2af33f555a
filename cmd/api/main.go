package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/glp1care/companion-api/internal/config"
	"github.com/glp1care/companion-api/internal/handler"
	"github.com/glp1care/companion-api/internal/middleware"
	"github.com/glp1care/companion-api/internal/provider/naver"
	pgRepo "github.com/glp1care/companion-api/internal/repository/postgres"
	"github.com/glp1care/companion-api/internal/service"
	"github.com/glp1care/companion-api/pkg/database"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

func main() {
	// Local dev convenience; production sets real environment variables.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	consentRepo := pgRepo.NewConsentRecordRepo(db)
	settingsRepo := pgRepo.NewNotificationSettingRepo(db)

	// Session backend clients: the admin handle holds the service-role key,
	// the public handle holds the anon key. Kept separate on purpose.
	authAdmin, err := gotrue.NewAdminClient(cfg.Supabase.AuthURL, cfg.Supabase.ServiceRoleKey)
	if err != nil {
		log.Printf("Failed to initialize auth admin client: %v", err)
		os.Exit(1)
	}
	authPublic, err := gotrue.NewClient(cfg.Supabase.AuthURL, cfg.Supabase.AnonKey)
	if err != nil {
		log.Printf("Failed to initialize auth client: %v", err)
		os.Exit(1)
	}

	naverClient := naver.NewClient(cfg.Naver.ProfileURL)

	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		log.Println("Resend email service enabled")
	}

	// Services
	naverAuthService, err := service.NewNaverAuthService(
		naverClient, authAdmin, authPublic, userRepo, consentRepo, settingsRepo, emailService,
	)
	if err != nil {
		log.Printf("Failed to initialize NaverAuthService: %v", err)
		os.Exit(1)
	}

	accountService, err := service.NewAccountService(authAdmin, authPublic, userRepo, emailService)
	if err != nil {
		log.Printf("Failed to initialize AccountService: %v", err)
		os.Exit(1)
	}

	// Handlers and middleware
	authHandler := handler.NewAuthHandler(naverAuthService, accountService)
	userHandler := handler.NewUserHandler(userRepo)

	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Supabase.JWTSecret)
	if err != nil {
		log.Printf("Failed to initialize auth middleware: %v", err)
		os.Exit(1)
	}
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()

	// The mobile shell performs CORS pre-flights before every call; OPTIONS
	// must always answer 200 with permissive headers.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:              []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(rateLimiter.Limit(middleware.AuthRateLimitConfig()))
		{
			auth.POST("/naver", authHandler.NaverLogin)
		}

		account := api.Group("/account")
		account.Use(rateLimiter.Limit(middleware.DeletionRateLimitConfig()))
		{
			account.DELETE("", authHandler.DeleteAccount)
		}

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
