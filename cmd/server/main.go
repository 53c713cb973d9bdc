// Command server runs the repository cost estimation API server.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/repocost/internal/config"
	"github.com/codeGROOVE-dev/repocost/internal/server"
)

const (
	defaultPort       = "8080"
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	maxHeaderBytes    = 1 << 20 // 1MB
)

// Build variables - set by ldflags.
var (
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.InfoContext(ctx, "starting server",
		"commit", GitCommit,
		"branch", GitBranch,
		"built", BuildTime,
		"go", runtime.Version(),
		"pid", os.Getpid())

	var (
		port        = flag.String("port", "", "Port to run the server on")
		version     = flag.Bool("version", false, "Print version and exit")
		corsOrigins = flag.String("cors-origins", "",
			"Comma-separated list of allowed CORS origins (supports *.domain.com wildcards)")
		allowAllCors = flag.Bool("allow-all-cors", false, "Allow all CORS origins (use only for development)")
		rateLimit    = flag.Int("rate-limit", 100, "Requests per second rate limit")
		rateBurst    = flag.Int("rate-burst", 100, "Rate limit burst size")
		configPath   = flag.String("config", "repocost.yaml", "Calibration file path")
	)
	flag.Parse()

	if *version {
		logger.InfoContext(ctx, "repocost-server version",
			"commit", GitCommit,
			"branch", GitBranch,
			"built", BuildTime,
			"go", runtime.Version())
		os.Exit(0)
	}

	serverPort := *port
	if serverPort == "" {
		serverPort = os.Getenv("PORT")
	}
	if serverPort == "" {
		serverPort = defaultPort
	}

	calibration, err := config.Load(*configPath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load calibration file", "path", *configPath, "error", err)
		os.Exit(1)
	}

	estimateServer := server.New()
	estimateServer.SetCommit(GitCommit)
	estimateServer.SetCORSConfig(*corsOrigins, *allowAllCors)
	estimateServer.SetRateLimit(*rateLimit, *rateBurst)
	estimateServer.SetCalibration(calibration.Config(), calibration.Params())

	srv := &http.Server{
		Addr:              ":" + serverPort,
		Handler:           estimateServer,
		ReadTimeout:       readHeaderTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening", "port", serverPort)
		serverErrors <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "server error", "error", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.InfoContext(ctx, "received signal", "signal", sig)
		logger.InfoContext(ctx, "starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)

		estimateServer.Shutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			cancel()
			logger.WarnContext(ctx, "graceful shutdown failed", "error", err)
			if err := srv.Close(); err != nil {
				logger.ErrorContext(ctx, "server close error", "error", err)
				os.Exit(1)
			}
		} else {
			cancel()
		}
	}

	logger.InfoContext(ctx, "server stopped")
}
