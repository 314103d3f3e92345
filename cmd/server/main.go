package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	goredis "github.com/redis/go-redis/v9"

	"github.com/questforge/questforge-backend/internal/engine/api"
	"github.com/questforge/questforge-backend/internal/engine/attestation"
	"github.com/questforge/questforge-backend/internal/engine/completion"
	"github.com/questforge/questforge-backend/internal/engine/config"
	"github.com/questforge/questforge-backend/internal/engine/events"
	"github.com/questforge/questforge-backend/internal/engine/prerequisite"
	"github.com/questforge/questforge-backend/internal/engine/reconciler"
	"github.com/questforge/questforge-backend/internal/engine/repository"
	"github.com/questforge/questforge-backend/internal/engine/verification"
	"github.com/questforge/questforge-backend/pkg/chain"
	"github.com/questforge/questforge-backend/pkg/database"
	"github.com/questforge/questforge-backend/pkg/httpclient"
	"github.com/questforge/questforge-backend/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := config.Init(); err != nil {
		panic(fmt.Sprintf("Failed to initialize config: %v", err))
	}

	logger, err := logging.NewZapLogger(logging.LoggerConfig{
		ProcessName:   logging.EngineProcess,
		IsDevelopment: config.IsDevMode(),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	logger.Info("Starting verification engine...",
		"mode", config.IsDevMode(),
		"port", config.GetServerPort(),
		"host", config.GetDatabaseHost(),
	)

	dbConfig := database.DefaultConfig(
		[]string{config.GetDatabaseHost() + ":" + config.GetDatabasePort()},
		config.GetDatabaseKeyspace(),
	)
	db, err := database.NewConnection(dbConfig)
	if err != nil {
		logger.Fatalf("Failed to initialize database connection: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	chainClient, err := chain.NewClient(ctx, config.GetChainRPCURL(), logger)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to initialize chain client: %v", err)
	}
	defer chainClient.Close()

	var redisClient *goredis.Client
	if config.GetRedisAddr() != "" {
		redisClient = goredis.NewClient(&goredis.Options{Addr: config.GetRedisAddr()})
		defer func() { _ = redisClient.Close() }()
	} else {
		logger.Warn("REDIS_ADDR not set, completion notifications disabled")
	}

	quests := repository.NewQuestRepository(db)
	completions := repository.NewCompletionRepository(db)
	progress := repository.NewProgressRepository(db)
	replay := repository.NewReplayRepository(db)
	users := repository.NewUserRepository(db)

	vendorAddress := common.HexToAddress(config.GetVendorContract())
	transactionStrategy := verification.NewTransactionStrategy(chainClient, vendorAddress, logger)
	registry := verification.NewRegistry(transactionStrategy)

	keyChecker := prerequisite.NewLockKeyChecker(chainClient)
	prereqChecker := prerequisite.NewChecker(progress, keyChecker, logger)

	httpClient, err := httpclient.NewHTTPClient(httpclient.DefaultHTTPRetryConfig(), logger)
	if err != nil {
		logger.Fatalf("Failed to initialize HTTP client: %v", err)
	}
	defer httpClient.Close()

	relayer := attestation.NewRelayerClient(httpClient, config.GetAttestationURL(), config.GetEASScanURL(), logger)
	gate := attestation.NewGate(progress, relayer, config.IsEASEnabled(), logger)

	notifier := events.NewPublisher(redisClient, logger)

	orchestrator := completion.NewOrchestrator(
		quests, completions, progress, replay,
		registry, prereqChecker, gate, notifier, logger,
	)

	progressReconciler := reconciler.NewReconciler(quests, completions, progress, logger)
	if err := progressReconciler.Start(); err != nil {
		logger.Fatalf("Failed to start progress reconciler: %v", err)
	}
	defer progressReconciler.Stop()

	server := api.NewServer(orchestrator, users, db, logger)

	serverErrors := make(chan error, 1)
	go func() {
		if err := server.Start(config.GetServerPort()); err != nil {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("Server error received", "error", err)
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}

	logger.Info("Verification engine stopped")
}
