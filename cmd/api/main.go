package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/semak-karangan-api/internal/config"
	"github.com/noah-isme/semak-karangan-api/internal/database"
	"github.com/noah-isme/semak-karangan-api/internal/handler"
	"github.com/noah-isme/semak-karangan-api/internal/middleware"
	"github.com/noah-isme/semak-karangan-api/internal/repository"
	"github.com/noah-isme/semak-karangan-api/internal/router"
	"github.com/noah-isme/semak-karangan-api/internal/service"
	"github.com/noah-isme/semak-karangan-api/pkg/ai"
	cloud "github.com/noah-isme/semak-karangan-api/pkg/cloudinary"
	"github.com/noah-isme/semak-karangan-api/pkg/ocr"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.ValidateServer(); err != nil {
		logger.Fatal().Err(err).Msg("invalid server configuration")
	}

	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured, result lists are not cached")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName), nats.MaxReconnects(-1))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsConn.Drain()
	}

	completer, err := ai.NewCompleter(ai.ProviderConfig{
		Provider:     cfg.AIProvider,
		Model:        cfg.AIModel,
		OpenAIKey:    cfg.OpenAIAPIKey,
		AnthropicKey: cfg.AnthropicAPIKey,
		GeminiKey:    cfg.GeminiAPIKey,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create ai backend")
	}
	grader, err := ai.NewGrader(completer, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create grader")
	}

	var extractor ocr.Extractor
	if cfg.GoogleCredentials != "" || cfg.VisionAPIKey != "" {
		vision, err := ocr.NewVisionExtractor(ctx, ocr.VisionConfig{
			CredentialsJSON: cfg.GoogleCredentials,
			APIKey:          cfg.VisionAPIKey,
			Logger:          logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create vision client")
		}
		extractor = vision
	} else {
		logger.Warn().Msg("google vision not configured, OCR endpoints are disabled")
	}

	var archive service.PageArchive
	if cfg.CloudinaryEnabled() {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
		archive = uploader
	}

	logger.Info().
		Str("policy", cfg.ScoringPolicy.Name).
		Str("content_band", string(cfg.ScoringPolicy.ContentBand)).
		Bool("language_bonus", cfg.ScoringPolicy.LanguageBonus).
		Bool("idiom_filter", cfg.ScoringPolicy.IdiomFilter).
		Str("ai_provider", completer.Provider()).
		Msg("scoring policy active")

	validate := validator.New(validator.WithRequiredStructEnabled())

	resultRepo := repository.NewResultRepository(db)
	creditRepo := repository.NewCreditRepository(db)

	publisher := service.NewEventPublisher(natsConn, redisClient, logger)
	analysisService := service.NewAnalysisService(grader, cfg.ScoringPolicy, cfg.AITimeout, logger)
	creditService := service.NewCreditService(creditRepo, logger)
	resultService := service.NewResultService(resultRepo, redisClient, cfg.ResultsCacheTTL, publisher, logger)
	semakService := service.NewSemakService(analysisService, extractor, creditService, resultService, archive, validate, service.SemakConfig{
		MaxPages:   cfg.OCRMaxPages,
		OCRTimeout: cfg.AITimeout,
	}, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.BodyLimit(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		SemakHandler:  handler.NewSemakHandler(semakService, cfg.UploadMaxSizeMB, logger),
		ResultHandler: handler.NewResultHandler(resultService, validate, logger),
		CreditHandler: handler.NewCreditHandler(creditService, validate, logger),
		JWTMiddleware: middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
