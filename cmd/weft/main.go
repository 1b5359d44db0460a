package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/weftlabs/weft/internal/application/compose"
	"github.com/weftlabs/weft/internal/application/health"
	"github.com/weftlabs/weft/internal/application/scheduler"
	"github.com/weftlabs/weft/internal/application/unit"
	"github.com/weftlabs/weft/internal/config"
	eventsmemory "github.com/weftlabs/weft/pkg/adapters/events/memory"
	eventsredis "github.com/weftlabs/weft/pkg/adapters/events/redis"
	"github.com/weftlabs/weft/pkg/adapters/metrics/prometheus"
	registrymemory "github.com/weftlabs/weft/pkg/adapters/registry/memory"
	registryredis "github.com/weftlabs/weft/pkg/adapters/registry/redis"
	"github.com/weftlabs/weft/pkg/api/grpc"
	"github.com/weftlabs/weft/pkg/api/http"
	"github.com/weftlabs/weft/pkg/api/websocket"
	"github.com/weftlabs/weft/pkg/domain"
	"github.com/weftlabs/weft/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting weft runtime",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize Redis client when any redis backend is selected
	var redisClient *goredis.Client
	if cfg.EventBus == config.BackendRedis || cfg.Registry == config.BackendRedis {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize adapters
	var eventBus ports.EventBus
	if cfg.EventBus == config.BackendRedis {
		eventBus, err = eventsredis.NewStreamsEventBus(
			redisClient,
			"weft-runtime",
			fmt.Sprintf("weft-%d", os.Getpid()),
			logger,
		)
		if err != nil {
			logger.Fatal("failed to create event bus", zap.Error(err))
		}
	} else {
		eventBus = eventsmemory.NewInMemoryEventBus()
	}

	var agentStore ports.AgentStore
	if cfg.Registry == config.BackendRedis {
		agentStore = registryredis.NewAgentStore(redisClient, cfg.Redis.AgentTTL, logger)
	} else {
		agentStore = registrymemory.NewInMemoryAgentStore()
	}

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	registry := scheduler.NewRegistry(agentStore, metricsCollector, logger)
	executor := scheduler.NewParallelExecutor(eventBus, metricsCollector, logger)

	dispatchUnit, dispatch := buildDispatcher(cfg, metricsCollector, logger)
	dispatcher := scheduler.NewDistributedOrchestrator(registry, executor, dispatch, logger)

	monitor := health.NewMonitor(cfg.Timeouts.HealthCheckInterval, metricsCollector, logger)
	monitor.Register(dispatchUnit)
	monitor.Start()

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Port:       cfg.HTTPPort,
		Dispatcher: dispatcher,
		Monitor:    monitor,
		Logger:     logger,
	})

	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	grpcServer, err := grpc.NewServer(&grpc.Config{
		Port:       cfg.GRPCPort,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to create gRPC server", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	logger.Info("weft runtime started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.String("event_bus", string(cfg.EventBus)),
		zap.String("registry", string(cfg.Registry)))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", zap.Error(err))
	}

	monitor.Stop()

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("weft runtime shut down complete")
}

// dispatchRequest carries one step assignment to the dispatch unit.
type dispatchRequest struct {
	Agent domain.AgentInfo
	Step  domain.PlanStep
}

// buildDispatcher composes the default step dispatcher out of the unit
// algebra itself: a timed dispatch unit wrapped in the configured retry
// policy. Real agent transports replace the inner transform.
func buildDispatcher(cfg *config.Config, collector ports.MetricsCollector, logger *zap.Logger) (unit.Unit[dispatchRequest, interface{}], scheduler.DispatchFunc) {
	base := unit.New("dispatch", func(ctx unit.ExecutionContext, req dispatchRequest) (interface{}, error) {
		return map[string]interface{}{
			"action":   req.Step.Action,
			"agent_id": req.Agent.ID,
			"outcome":  req.Step.ExpectedOutcome,
		}, nil
	},
		unit.WithTimeout(cfg.Timeouts.StepExecution),
		unit.WithCollector(collector),
		unit.WithLogger(logger),
	)

	retried := compose.Retry(base, unit.RetryConfig{
		MaxRetries:        cfg.Retry.MaxRetries,
		InitialDelay:      cfg.Retry.InitialDelay,
		MaxDelay:          cfg.Retry.MaxDelay,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
	})

	dispatch := func(ctx unit.ExecutionContext, agent domain.AgentInfo, step domain.PlanStep) unit.Result[interface{}] {
		return retried.Execute(ctx, dispatchRequest{Agent: agent, Step: step})
	}
	return retried, dispatch
}

// initLogger initializes the logger based on log level.
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
