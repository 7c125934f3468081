package main

import (
	"context"
	"dm-lab/auth"
	"dm-lab/infrastructure/grpc/server"
	httpserver "dm-lab/infrastructure/http/server"
	"dm-lab/infrastructure/storage"
	"dm-lab/internal"
	"dm-lab/moderation"
	"dm-lab/observability"
	"dm-lab/runtime"
	"dm-lab/runtime/workers"
	"dm-lab/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every deferred cleanup run, badger last.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Tracing
	shutdownTracing, err := observability.InitTracing(ctx, log, config.OTLPEndpoint, config.ServiceName)
	if err != nil {
		return fmt.Errorf("tracing setup failed: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("Tracer provider did not flush", "error", err)
		}
	}()

	// 5. Domain wiring
	metrics := observability.NewMetrics()
	store := storage.NewStore(db, log, config.TxMaxRetries)
	profiles := storage.NewProfileRepository(db, log)
	hub := runtime.NewHub(log, metrics)
	rooms := services.NewRoomService(
		log, store, moderation.NewGate(log), profiles,
		runtime.NewDelivery(hub, log), metrics, config.MaxContentLength,
	)
	verifier := auth.NewVerifier(config.JWTSecret, config.JWTIssuer)

	chat := httpserver.NewChatServer(log, rooms, verifier, hub, metrics, httpserver.LiveConfig{
		BufferSize:   config.ConnectionBufferSize,
		WriteTimeout: config.WriteTimeout,
		PongTimeout:  config.PongTimeout,
		MaxFrameSize: config.MaxFrameSize(),
	})
	httpServer := &http.Server{
		Addr:              config.HTTPAddress(),
		Handler:           chat.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer, healthServer := server.NewOpsServer(log)

	// 6. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewHTTPServerWorker(log, httpServer, config.ShutdownTimeout),
		workers.NewGRPCServerWorker(log, grpcServer, healthServer, config.GRPCAddress()),
		workers.NewHeartbeatWorker(log, hub, config.MetricInterval),
	)
	log.Info("dm-lab started", "http", config.HTTPAddress(), "grpc", config.GRPCAddress())

	// 7. Run until a signal cancels ctx; every worker drains before Run returns
	sup.Run(ctx)
	log.Info("Program stopped cleanly")
	return nil
}
