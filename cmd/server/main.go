package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"mailroom/internal"
	"mailroom/server"
	"mailroom/services"
	"mailroom/sessions"
	"mailroom/store"
	"mailroom/workers"
)

// Exit codes to provide meaningful status to the operating system or a
// service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// main stays a thin wrapper so every defer in run executes before the
	// process exits.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Mail server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the whole server: configuration, store, services, dispatcher,
// supervised workers, and the shutdown snapshot.
func run() (int, error) {
	// 1. Configuration & logger. A local .env is optional.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Store. Load failures are not fatal: the server starts with an
	// empty address space rather than refusing to boot.
	fileStore := store.NewFileStore(config.UsersFilepath, config.EmailsFilepath, logger)
	if err := fileStore.Load(); err != nil {
		logger.Warn("Snapshot load failed, starting empty", "error", err)
	}
	logger.Info("Store loaded", "users", fileStore.UserCount(), "emails", fileStore.EmailCount())

	// 3. Sessions, services, dispatcher.
	registry := sessions.NewRegistry(logger)
	authService := services.NewAuthService(fileStore, registry, logger)
	mailService := services.NewMailService(fileStore, logger)
	dispatcher := server.NewCommandDispatcher(authService, mailService, registry, logger)

	// 4. Supervised workers: the TCP listener and the resource monitor.
	srv := server.NewServer(config.Addr(), config.MaxClients, config.DrainTimeout, dispatcher, logger)
	monitor := workers.NewMonitorWorker(logger, config.MetricInterval, srv, registry, fileStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.NewSupervisor(logger, config.RestartInterval).
		Add(srv, monitor).
		Run(ctx)

	// 5. Shutdown: drop every session, then snapshot the store. The store
	// locks guarantee no in-flight mutation interleaves with the save.
	logger.Info("Shutting down, saving state...")
	registry.ClearAll()
	if err := fileStore.Save(); err != nil {
		logger.Error("Shutdown snapshot failed, previous files left intact", "error", err)
		return exitRuntime, err
	}
	logger.Info("Shutdown complete. Goodbye.")
	return exitOK, nil
}
