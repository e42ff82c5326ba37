package main

import (
	"context"
	"log"

	"atlas-core/internal/adapter/api"
	"atlas-core/internal/adapter/client"
	"atlas-core/internal/adapter/store"
	"atlas-core/internal/config"
	"atlas-core/internal/domain/repository"
	"atlas-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	ctx := context.Background()
	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.GoogleCloudProject,
		Location: cfg.GoogleCloudLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		logger.Fatal("failed to init genai client", zap.Error(err))
	}

	primaryModel := client.NewGeminiClientFromClient(genaiClient, cfg.GeminiModel)
	fallbackModel := client.NewGeminiClientFromClient(genaiClient, cfg.GeminiFallbackModel)
	generator := client.NewResilientGenerator(primaryModel, fallbackModel, cfg.GenerationTimeout, logger)

	// Relational metadata store (PostGIS)
	metadataStore, err := store.NewPostgresStore(cfg.PGWriteURL, cfg.DBTimeout)
	if err != nil {
		logger.Fatal("failed to connect to metadata store", zap.Error(err))
	}
	defer metadataStore.Close()

	// Analytical engine over remote Parquet (scoped connection per query)
	profileStore := store.NewDuckDBStore(store.DuckDBConfig{
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
	}, cfg.DBTimeout)

	// Optional per-user token budget
	var limiter repository.TokenLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = store.NewRedisLimiter(rdb, cfg.UserTokenLimit)
	}

	relational := usecase.NewRelationalAgent(generator, metadataStore, logger)
	analytical := usecase.NewAnalyticalAgent(generator, profileStore, cfg.S3BucketName, logger)
	literature := usecase.NewLiteratureAgent(generator, logger)
	conversation := usecase.NewConversationAgent(generator, logger)

	router := usecase.NewRouter(generator, logger)
	executor := usecase.NewExecutor(relational, analytical, literature)
	synthesizer := usecase.NewSynthesizer(generator, logger)

	orchestrator := usecase.NewOrchestrator(router, executor, conversation, synthesizer, limiter, logger)

	app := fiber.New(fiber.Config{
		AppName: "Atlas Query Gateway",
	})

	handler := api.NewQueryHandler(orchestrator, []usecase.Agent{relational, analytical, literature}, logger)
	api.SetupRouter(app, handler)

	logger.Info("atlas query gateway running", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if cfg.Environment != "prod" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = level
	}
	logger, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
