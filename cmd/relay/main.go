package main

import (
	"chat-relay/infrastructure/translate"
	"chat-relay/infrastructure/ws"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Deferred cleanups run before the exit code reaches main.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	// 3. Translation provider
	translator, err := translate.NewAWSTranslator(ctx, logger, config.AWSRegion)
	if err != nil {
		return exitConfig, err
	}

	// 4. Optional moderation
	var moderator *moderation.Moderator
	if config.ModerationEnabled {
		moderator, err = buildModerator(logger, charReplacement)
		if err != nil {
			return exitConfig, err
		}
	}

	// 5. Relay core
	participants := runtime.NewRegistry()
	hub := ws.NewHub(logger)
	coordinator := runtime.NewCoordinator(logger, translator, hub, metrics,
		config.TranslationTimeout, config.MaxConcurrentTranslations)
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(logger, supervisor, participants, hub, coordinator,
		moderator, metrics, config.NumberOfWorkers, config.BufferSize)
	chatService := services.NewChatService(logger, orchestrator, config.MaxNameLength, config.MaxContentLength)

	supervisor.Add(workers.NewChannelCapacityWorker(logger, []workers.NamedChannel{
		{Name: "messages", Channel: orchestrator.Queue()},
	}, metrics, config.MetricInterval))
	if err := orchestrator.Start(ctx); err != nil {
		return exitRuntime, fmt.Errorf("orchestrator error: %w", err)
	}
	defer orchestrator.Stop()

	// 6. HTTP surface
	options := internal.RouterOptions{
		Websocket: ws.NewHandler(logger, hub, chatService, config.ConnectionBufferSize,
			config.DeliveryTimeout, int64(4*config.MaxContentLength+1024)),
		Gatherer:  registry,
		StaticDir: config.StaticDir,
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		options.Inspector = internal.NewInspector(logger, participants.All)
		logger.Info("Participant inspector available", "path", "/debug/participants")
	}
	server := &http.Server{
		Addr:              config.Address(),
		Handler:           internal.NewRouter(logger, options),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Graceful shutdown: hijacked websocket connections are not tracked
	// by Shutdown, they end when the process exits.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", "error", err)
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildModerator(logger *slog.Logger, charReplacement rune) (*moderation.Moderator, error) {
	data, err := runtime.NewEmbeddedCensoredLoader().LoadAll("censored")
	if err != nil {
		return nil, fmt.Errorf("unable to load censored words: %w", err)
	}
	logger.Info("Moderation enabled", "words", len(data.Words), "languages", data.Languages)
	return moderation.NewModerator(data.Words, charReplacement, logger)
}
