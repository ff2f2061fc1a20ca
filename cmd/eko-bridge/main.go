package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/warunyoud/botv2Test/internal/app"
	"github.com/warunyoud/botv2Test/internal/config"
	"github.com/warunyoud/botv2Test/internal/tenant"
	"golang.org/x/sync/errgroup"
)

func main() {
	mainCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	envFile := flag.String("env-file", ".env", "path to env file")
	flag.Parse()

	settings, err := config.LoadSettings(*envFile)
	if err != nil {
		log.Fatalf("could not load settings: %s", err)
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		log.Fatalf("could not parse log level: %s", err)
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", settings.ServiceName).Logger()

	registry, err := tenant.LoadRegistry(settings.ResponsePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load tenant registry")
	}

	server, err := app.New(&settings, registry, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create server")
	}

	runnerGroup, runnerCtx := errgroup.WithContext(mainCtx)
	runnerGroup.Go(func() error {
		logger.Info().Str("port", strconv.Itoa(settings.Port)).Msg("Starting web server")
		return server.Listen(":" + strconv.Itoa(settings.Port))
	})
	runnerGroup.Go(func() error {
		<-runnerCtx.Done()
		logger.Info().Msg("Received signal, shutting down...")
		return server.ShutdownWithTimeout(5 * time.Second)
	})

	if err := runnerGroup.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed.")
	}
	logger.Info().Msg("Server stopped.")
}
