package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"supportpilot/internal/ai"
	"supportpilot/internal/classifier"
	"supportpilot/internal/config"
	"supportpilot/internal/handler"
	"supportpilot/internal/httpserver"
	"supportpilot/internal/knowledge"
	"supportpilot/internal/mailer"
	"supportpilot/internal/refund"
	"supportpilot/internal/repository"
	"supportpilot/internal/responder"
	"supportpilot/internal/triage"
	"supportpilot/pkg/db"
	"supportpilot/pkg/logger"
	"supportpilot/pkg/mq"
	"supportpilot/pkg/outbox"
	"supportpilot/pkg/redis"
	"supportpilot/pkg/util"
)

func main() {
	configPath := flag.String("config", "config/base.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger := logger.NewLogger()
	defer logger.Sync()

	logger.Info("Starting support triage service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := repository.EnsureSchema(ctx, dbConn, logger); err != nil {
		logger.Fatal("Schema bootstrap failed", zap.Error(err))
	}
	logger.Info("DB ready")

	// Redis
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour, logger)

	// MQ + outbox dispatcher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("MQ publisher init failed", zap.Error(err))
	}
	defer publisher.Close()

	outboxRepo := outbox.NewRepository(dbConn)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, logger)
	go dispatcher.Start(ctx)

	// repositories
	orderRepo := repository.NewOrderRepository(dbConn, outboxRepo)
	processedRepo := repository.NewProcessedRepository(dbConn)
	unhandledRepo := repository.NewUnhandledRepository(dbConn, outboxRepo)
	attemptRepo := repository.NewRefundAttemptRepository(dbConn, outboxRepo)
	accountRepo := repository.NewAccountRepository(dbConn)

	// model client + knowledge index
	aiClient := ai.NewClient(cfg.OpenAI)

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Qdrant.Host,
		Port: cfg.Qdrant.Port,
	})
	if err != nil {
		logger.Fatal("Qdrant connection failed", zap.Error(err))
	}
	defer qdrantClient.Close()

	index := knowledge.NewIndex(qdrantClient, aiClient, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize, logger)
	if err := index.Bootstrap(ctx); err != nil {
		logger.Fatal("Knowledge index bootstrap failed", zap.Error(err))
	}
	logger.Info("Knowledge index ready")

	// mail accounts
	registry := mailer.NewRegistry(logger)
	oauthCfg := mailer.OAuthConfig(cfg.Gmail)
	if err := registry.LoadAccounts(ctx, accountRepo, oauthCfg); err != nil {
		logger.Fatal("Account load failed", zap.Error(err))
	}
	logger.Info("Mail accounts connected", zap.Strings("accounts", registry.Accounts()))

	// pipeline
	cls := classifier.New(aiClient, logger)
	resp := responder.New(index, aiClient, cfg.Triage.TopK, cfg.Triage.RelevanceThreshold, logger)
	resolver := refund.New(orderRepo, attemptRepo, logger)
	orchestrator := triage.NewOrchestrator(cls, resp, resolver, unhandledRepo, registry, logger)

	poller := triage.NewPoller(
		registry,
		orchestrator,
		processedRepo,
		deduper,
		cfg.Triage.PollInterval(),
		cfg.Triage.ErrorBackoff(),
		logger,
	)
	poller.Start()
	go poller.Run(ctx)

	// admin HTTP surface
	authHandler := handler.NewAuthHandler(cfg.Auth, logger)
	knowledgeHandler := handler.NewKnowledgeHandler(index, cfg.Triage.TopK, logger)
	auditHandler := handler.NewAuditHandler(unhandledRepo, attemptRepo, outboxRepo, logger)
	triageHandler := handler.NewTriageHandler(poller, processedRepo, publisher, logger)
	accountHandler := handler.NewAccountHandler(accountRepo, registry, oauthCfg, logger)

	router := httpserver.NewRouter(
		authHandler,
		knowledgeHandler,
		auditHandler,
		triageHandler,
		accountHandler,
		cfg.Auth.JWTSecret,
		dbConn,
	)

	logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("HTTP server crashed", zap.Error(err))
	}
}
