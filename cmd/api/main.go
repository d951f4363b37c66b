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

	"careerpath/internal/catalog"
	"careerpath/internal/config"
	"careerpath/internal/db"
	apihttp "careerpath/internal/http"
	"careerpath/internal/llm"
	"careerpath/internal/metrics"
	"careerpath/internal/repository"
	"careerpath/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	if cfg.LogLevel == "debug" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := db.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		logger.Fatal("catalog load", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("questions", len(cat.Questions())),
		zap.Int("careers", len(cat.Careers())),
	)

	m := metrics.NewManager()
	userRepo := repository.NewPgUserRepository(pool)
	resultRepo := repository.NewPgResultRepository(pool)
	embeddingRepo := repository.NewPgCareerEmbeddingRepository(pool)

	var (
		llmClient llm.LLMClient
		embedder  llm.Embedder
		enricher  service.RecommendationEnricher
	)
	if client := llm.NewHTTPClient(llm.Options{
		BaseURL:        cfg.LLMBaseURL,
		APIKey:         cfg.LLMAPIKey,
		Model:          cfg.LLMModel,
		EmbeddingModel: cfg.LLMEmbeddingModel,
		Logger:         logger,
	}); client != nil {
		llmClient = client
		embedder = client
		enricher = service.NewLLMRecommendationEnricher(logger, client, m)
	} else {
		logger.Warn("llm not configured, ai features disabled")
	}

	var (
		sessionStore = service.NewMemorySessionStore(cfg.SessionTTL())
		tokenStore   = service.NewMemoryRefreshTokenStore()
		genLimiter   = service.NewMemoryRequestLimiter(time.Hour, cfg.QuestionGenPerHour)
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			sessionStore = service.NewRedisSessionStore(redisClient, cfg.SessionTTL())
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			genLimiter = service.NewRedisRequestLimiter(redisClient, "qgen:rl:", time.Hour, cfg.QuestionGenPerHour)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL(), tokenStore)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	engine := service.NewCareerEngine(cat, service.NewRandomSource(cfg.RandomSeed), cfg.TopRecommendations)
	userSvc := service.NewUserService(logger, userRepo)
	assessmentSvc := service.NewAssessmentService(service.AssessmentServiceDeps{
		Logger:   logger,
		Catalog:  cat,
		Engine:   engine,
		Sessions: sessionStore,
		Results:  resultRepo,
		Enricher: enricher,
		Metrics:  m,
	})
	searchSvc := service.NewCareerSearch(logger, cat, embedder, embeddingRepo, m)
	generator := service.NewQuestionGenerator(logger, llmClient, genLimiter, m)

	if cfg.ReindexOnStart && embedder != nil {
		n, err := searchSvc.Reindex(ctx)
		if err != nil {
			logger.Warn("career reindex failed", zap.Error(err), zap.Int("indexed", n))
		} else {
			logger.Info("careers reindexed", zap.Int("indexed", n))
		}
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:      logger,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		JWT:         jwtSvc,
		Users:       apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Assessments: apihttp.NewAssessmentHandler(logger, assessmentSvc, userSvc),
		Catalog:     apihttp.NewCatalogHandler(logger, cat, searchSvc, generator),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogDir != "" {
		return catalog.LoadDir(cfg.CatalogDir)
	}
	return catalog.Load()
}
