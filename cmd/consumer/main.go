package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ecodrive-query-api/config"
	"ecodrive-query-api/internal/notifier"
	"ecodrive-query-api/pkg/crm"
	"ecodrive-query-api/pkg/log"
	pkgRedis "ecodrive-query-api/pkg/redis"
)

// main is the entry point for the hand-off consumer.
// The API pushes conversation ids on a Redis list when notifier.mode is "queue";
// this binary pops them and labels each conversation in the CRM.
//
// Pattern:
//  1. Initialize infra (same as cmd/api/main.go)
//  2. Create the CRM sender
//  3. Consume until SIGINT/SIGTERM
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting hand-off consumer...")

	// Infrastructure
	rdb, err := pkgRedis.Connect(ctx, pkgRedis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Error(ctx, "Failed to connect to Redis: ", err)
		return
	}
	defer rdb.Close()

	crmClient, err := crm.NewClient(crm.Config{
		BaseURL:        cfg.CRM.BaseURL,
		APIKey:         cfg.CRM.APIKey,
		MaxRetries:     cfg.CRM.MaxRetries,
		RetryInterval:  cfg.CRM.RetryInterval,
		ConnectTimeout: cfg.CRM.ConnectTimeout,
		ReadTimeout:    cfg.CRM.ReadTimeout,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize CRM client: ", err)
		return
	}

	queue := notifier.NewRedisQueue(rdb, cfg.Notifier.QueueKey)
	logger.Infof(ctx, "Consuming hand-offs from %s", cfg.Notifier.QueueKey)

	if err := queue.Consume(ctx, notifier.NewCRMSender(crmClient), cfg.Notifier.Timeout, nil, logger); err != nil {
		logger.Error(ctx, "Consumer stopped with error: ", err)
		return
	}

	logger.Info(ctx, "Consumer stopped gracefully")
}
