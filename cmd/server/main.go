package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"learnify-core/internal/adapter/api"
	"learnify-core/internal/adapter/client"
	"learnify-core/internal/adapter/monitor"
	"learnify-core/internal/adapter/store"
	"learnify-core/internal/config"
	"learnify-core/internal/domain/entity"
	"learnify-core/internal/domain/repository"
	"learnify-core/internal/resilience"
	"learnify-core/internal/usecase"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	cfg := config.Load()
	ctx := context.Background()

	// Token budget: durable in Redis when configured, in-memory otherwise
	// (usage is then lost on restart).
	var budget repository.TokenBudget
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		budget = store.NewRedisBudget(rdb, cfg.DailyTokenLimit)
	} else {
		log.Warn("REDIS_ADDR not set, token budget is in-memory and resets on restart")
		memBudget := store.NewMemoryBudget(cfg.DailyTokenLimit)
		memBudget.StartSweeper(ctx, time.Minute)
		budget = memBudget
	}

	// Vector index: optional; without Qdrant every query takes the lexical
	// path.
	var vectorIndex repository.VectorIndex
	var embedder repository.Embedder
	if cfg.QdrantHost != "" {
		qClient, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
		})
		if err != nil {
			log.Fatalf("failed to connect to qdrant: %v", err)
		}
		qIndex := store.NewQdrantIndex(qClient, cfg.QdrantCollection)
		if err := qIndex.InitCollection(ctx, 1536); err != nil {
			log.Fatalf("failed to init qdrant collection: %v", err)
		}
		vectorIndex = qIndex
		embedder = client.NewOpenAIEmbedder(cfg.EmbeddingsBaseURL, cfg.EmbeddingsAPIKey, cfg.EmbeddingsModel)
	} else {
		log.Warn("QDRANT_HOST not set, semantic search disabled")
	}

	catalog := store.NewMemoryCatalog()
	catalog.Seed(defaultCatalog())

	searchRouter := usecase.NewSearchRouter(catalog, vectorIndex, embedder, budget)

	primary := client.NewHTTPProvider(cfg.Primary.Name, cfg.Primary.BaseURL, cfg.Primary.APIKey)
	fallback := client.NewHTTPProvider(cfg.Fallback.Name, cfg.Fallback.BaseURL, cfg.Fallback.APIKey)
	mock := client.NewMockResponder()

	ringSink := monitor.NewRingSink(50)
	metrics := monitor.NewMultiSink(monitor.NewLogSink(), ringSink)

	retry := resilience.RetryPolicy{MaxAttempts: cfg.RetryAttempts, BaseDelay: time.Second}
	gateway := usecase.NewGateway(primary, fallback, mock, metrics, cfg.BreakerThreshold, cfg.BreakerTimeout, retry)

	chatClient := client.NewChatCompletionsClient(cfg.ChatBaseURL, cfg.ChatAPIKey, cfg.ChatModel)
	pipeline := usecase.NewStreamPipeline(searchRouter, chatClient, budget,
		usecase.WithPacing(cfg.StreamPace, cfg.WordPace))

	// Best-effort warm-up so the first real query doesn't pay cold-start
	// latency.
	if embedder != nil {
		go func() {
			warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, _, err := embedder.CreateEmbedding(warmCtx, "warmup"); err != nil {
				log.WithError(err).Warn("embedder warm-up failed")
			} else {
				log.Info("embedder warm-up complete")
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName: "Learnify AI Core",
	})

	handler := api.NewHandler(gateway, pipeline, ringSink)
	api.SetupRouter(app, handler)

	log.Infof("Learnify AI core running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// defaultCatalog seeds the lexical index with the platform's own pages so
// local runs answer something sensible before the content job has run.
func defaultCatalog() []entity.CatalogEntry {
	return []entity.CatalogEntry{
		{
			Title:    "Interactive Quiz System",
			Type:     "feature",
			Content:  "Generate custom quizzes from any topic or PDF. Questions adapt to your performance with dynamic difficulty adjustment.",
			Keywords: []string{"quiz", "questions", "practice", "assessment"},
		},
		{
			Title:    "Course Management",
			Type:     "feature",
			Content:  "Structured learning paths with progress tracking, multimedia content and completion analytics.",
			Keywords: []string{"course", "progress", "lessons", "tracking"},
		},
		{
			Title:    "PDF Tools",
			Type:     "feature",
			Content:  "Upload documents to chat with them, extract summaries and generate study materials.",
			Keywords: []string{"pdf", "documents", "chat", "summary"},
		},
		{
			Title:    "Learning Roadmaps",
			Type:     "guide",
			Content:  "Guided skill development paths from beginner to expert, with milestones and recommended resources.",
			Keywords: []string{"roadmap", "path", "skills", "milestones"},
		},
		{
			Title:    "Getting Started with Learnify",
			Type:     "page",
			Content:  "Create an account, pick a course or roadmap, and track your learning progress across quizzes and documents.",
			Keywords: []string{"start", "account", "onboarding", "help"},
		},
	}
}
