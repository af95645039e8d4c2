package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/picoplaca/picoplaca/cmd/picoplaca/cli"
	"github.com/picoplaca/picoplaca/internal/app"
	"github.com/picoplaca/picoplaca/internal/checklog"
	"github.com/picoplaca/picoplaca/internal/observability"
	"github.com/picoplaca/picoplaca/internal/picoplaca"
	picoplacahttp "github.com/picoplaca/picoplaca/internal/picoplaca/http"
	"github.com/picoplaca/picoplaca/internal/platform/cache"
)

const usage = `usage: picoplaca <command> [flags]

commands:
  check   evaluate a plate, date and time (prompts for missing values)
  serve   run the HTTP API
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return cli.ExitUsage
	}
	switch args[0] {
	case "check":
		opts, err := cli.ParseCheckFlags(args[1:], stderr)
		if err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return cli.ExitOK
			}
			_, _ = fmt.Fprintln(stderr, err)
			return cli.ExitUsage
		}
		opts.Stdout = stdout
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return cli.CheckCommand(ctx, picoplaca.NewService(picoplaca.ServiceConfig{}), opts)
	case "serve":
		return serve()
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(stdout, usage)
		return cli.ExitOK
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usage)
		return cli.ExitUsage
	}
}

func serve() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}

	logger := app.NewLogger(cfg)

	var redisClient *redis.Client
	if cfg.CheckLogEnabled() {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, check log disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	metrics := observability.NewMetrics()
	serviceCfg := picoplaca.ServiceConfig{
		Observer:         metrics,
		Logger:           logger,
		BatchConcurrency: cfg.BatchConcurrency,
	}
	if redisClient != nil {
		serviceCfg.Recorder = checklog.NewRecorder(redisClient, checklog.Options{
			Capacity: cfg.CheckLogCapacity,
			TTL:      cfg.CheckLogTTL,
		})
	}
	service := picoplaca.NewService(serviceCfg)
	checkHandler := picoplacahttp.NewHandler(logger, service, picoplacahttp.Options{
		DefaultLanguage: cfg.DefaultLanguage,
		BatchLimit:      cfg.BatchLimit,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		CheckHandler: checkHandler,
		Metrics:      metrics,
	})

	if cfg.DryRun {
		logger.Info("dry run, server wired but not listening", slog.String("addr", cfg.AppAddr))
		return cli.ExitOK
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return 1
	}
	return cli.ExitOK
}
