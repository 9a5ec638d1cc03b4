package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ame_support_backend/cmd/api/config"
	"ame_support_backend/internal/api"
	"ame_support_backend/internal/auth"
	"ame_support_backend/internal/database"
	"ame_support_backend/internal/services"
	authutil "ame_support_backend/internal/utils/auth"
	"ame_support_backend/internal/utils/broker"
	"ame_support_backend/internal/wsocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger := cfg.SetupLogger()
	if envErr != nil {
		logger.Debug().Msg("No .env file found")
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise database")
	}

	llm, closeLLM, err := newLLMClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create language model client")
	}
	defer closeLLM()
	logger.Info().Str("provider", string(cfg.LLMProvider)).Msg("Language model client ready")

	locker, closeLocker, err := newSessionLocker(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create session locker")
	}
	defer closeLocker()

	messageBroker := broker.NewBroker()
	tokens := authutil.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize Internal services
	chatServiceDB := services.NewChatServiceDB(db)
	generator := services.NewResponseGenerator(llm, cfg.LLMTimeout)
	chatSessionService := services.NewChatSessionService(chatServiceDB, generator, locker, messageBroker, cfg.HistoryWindow)
	userService := services.NewUserService(db, tokens)

	if cfg.AdminPassword != "" {
		if _, created, err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("Failed to ensure admin user")
		} else if created {
			logger.Info().Str("email", cfg.AdminEmail).Msg("Created admin user")
		}
	}

	exporter, err := services.NewTranscriptExporter(cfg.TranscriptFontPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load transcript font")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     allowedOrigin(cfg.AllowedOrigins),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r, api.Services{
		Chat:      chatSessionService,
		Sessions:  chatServiceDB,
		Resources: services.NewResourceService(db),
		Configs:   services.NewAdminConfigService(db),
		Training:  services.NewTrainingService(db),
		Analytics: services.NewAnalyticsService(db),
		Users:     userService,
		Exporter:  exporter,
		Alerts:    wsocket.NewHandler(messageBroker, upgrader, cfg.AlertPingInterval),
	})
	auth.SetupRoutes(r, userService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func newLLMClient(ctx context.Context, cfg *config.Config) (services.LLMClient, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return services.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), func() {}, nil
	case config.ProviderGemini:
		client, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	default:
		log.Warn().Msg("No language model API key configured, using the mock client")
		return services.NewMockLLMClient(), func() {}, nil
	}
}

func newSessionLocker(ctx context.Context, cfg *config.Config) (services.SessionLocker, func(), error) {
	if cfg.SessionLockBackend != "redis" {
		return services.NewLocalSessionLocker(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	return services.NewRedisSessionLocker(client, cfg.SessionLockTTL), func() { client.Close() }, nil
}

func allowedOrigin(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
