package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"ecodrive-query-api/config"
	_ "ecodrive-query-api/docs" // Swagger docs
	callerUC "ecodrive-query-api/internal/caller/usecase"
	conversationHTTP "ecodrive-query-api/internal/conversation/delivery/http"
	"ecodrive-query-api/internal/conversation/repository"
	memoryStore "ecodrive-query-api/internal/conversation/repository/memory"
	redisStore "ecodrive-query-api/internal/conversation/repository/redis"
	conversationUC "ecodrive-query-api/internal/conversation/usecase"
	"ecodrive-query-api/internal/generator"
	"ecodrive-query-api/internal/httpserver"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/internal/middleware"
	"ecodrive-query-api/internal/notifier"
	"ecodrive-query-api/internal/router"
	"ecodrive-query-api/pkg/crm"
	"ecodrive-query-api/pkg/llmprovider"
	"ecodrive-query-api/pkg/log"
	pkgRedis "ecodrive-query-api/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

// @title       EcoDrive Query API
// @description Intent routing, knowledge-grounded answers and human hand-off for the EcoDrive WhatsApp assistant.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting EcoDrive Query API...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// 4. LLM providers
	llm, err := newLLMManager(cfg.LLM, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}

	// 5. Redis (only when a component needs it)
	var rdb *goredis.Client
	if cfg.Conversation.Store == "redis" || cfg.Notifier.Mode == notifier.ModeQueue {
		rdb, err = pkgRedis.Connect(ctx, pkgRedis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Error(ctx, "Failed to connect to Redis: ", err)
			return
		}
		defer rdb.Close()
		logger.Infof(ctx, "Redis connected at %s", cfg.Redis.Addr)
	}

	// 6. Conversation store
	var store repository.Store
	switch cfg.Conversation.Store {
	case "redis":
		store = redisStore.New(rdb, "", cfg.Conversation.TTL)
	default:
		store = memoryStore.New(cfg.Conversation.MaxEntries, cfg.Conversation.TTL)
	}
	logger.Infof(ctx, "Conversation store: %s (ttl %s)", cfg.Conversation.Store, cfg.Conversation.TTL)

	// 7. CRM client (optional)
	var crmClient *crm.Client
	if cfg.CRM.BaseURL != "" {
		crmClient, err = crm.NewClient(crm.Config{
			BaseURL:        cfg.CRM.BaseURL,
			APIKey:         cfg.CRM.APIKey,
			MaxRetries:     cfg.CRM.MaxRetries,
			RetryInterval:  cfg.CRM.RetryInterval,
			ConnectTimeout: cfg.CRM.ConnectTimeout,
			ReadTimeout:    cfg.CRM.ReadTimeout,
		})
		if err != nil {
			logger.Warnf(ctx, "CRM not available (optional): %v", err)
			crmClient = nil
		}
	} else {
		logger.Warn(ctx, "CRM base URL not set: callers stay anonymous and hand-offs are not labelled")
	}

	var directory callerUC.Directory
	if crmClient != nil {
		directory = crmClient
	}
	profiles, err := callerUC.New(directory, cfg.CRM.ProfileCacheTTL, m, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize caller profiles: ", err)
		return
	}

	// 8. Router and generator
	classifier, err := router.New(llm, cfg.LLM.Models.Classifier, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize router: ", err)
		return
	}
	gen := generator.New(llm, generator.Options{
		ChatModel:   cfg.LLM.Models.Chat,
		RAGModel:    cfg.LLM.Models.RAG,
		Temperature: cfg.LLM.Temperature,
	}, logger)

	// 9. Knowledge retrieval
	retriever, closeRetrieval, err := newRetrieval(ctx, cfg, llm, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize knowledge retrieval: ", err)
		return
	}
	defer closeRetrieval()

	// 10. Hand-off notifier
	var sender notifier.Sender
	switch {
	case cfg.Notifier.Mode == notifier.ModeQueue:
		sender = notifier.NewRedisQueue(rdb, cfg.Notifier.QueueKey)
		logger.Infof(ctx, "Hand-offs are queued on %s", cfg.Notifier.QueueKey)
	case crmClient != nil:
		sender = notifier.NewCRMSender(crmClient)
	default:
		sender = notifier.NopSender{}
	}
	dispatcher := notifier.NewDispatcher(sender, notifier.Options{
		Workers:   cfg.Notifier.Workers,
		QueueSize: cfg.Notifier.QueueSize,
		Timeout:   cfg.Notifier.Timeout,
	}, m, logger)

	// 11. Conversation domain
	uc := conversationUC.New(store, profiles, classifier, gen, retriever, dispatcher, m, logger)
	conversationHandler := conversationHTTP.New(logger, uc)

	// 12. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:              logger,
		Port:                cfg.HTTPServer.Port,
		Mode:                cfg.HTTPServer.Mode,
		Environment:         cfg.Environment.Name,
		Gatherer:            registry,
		Middleware:          middleware.New(logger, cfg.RateLimit, m),
		ConversationHandler: conversationHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 13. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		logger.Warnf(ctx, "Pending hand-offs not delivered: %v", err)
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// newLLMManager builds the fallback chain from the configured providers.
func newLLMManager(cfg config.LLMConfig, logger log.Logger) (*llmprovider.Manager, error) {
	providers, err := llmprovider.InitializeProviders(&cfg)
	if err != nil {
		return nil, err
	}

	retryDelay, err := parseDuration(cfg.RetryDelay, time.Second)
	if err != nil {
		return nil, fmt.Errorf("llm.retry_delay: %w", err)
	}
	maxTotal, err := parseDuration(cfg.MaxTotalTimeout, 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("llm.max_total_timeout: %w", err)
	}

	return llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.FallbackEnabled,
		RetryAttempts:   cfg.RetryAttempts,
		RetryDelay:      retryDelay,
		MaxTotalTimeout: maxTotal,
	}, logger), nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
