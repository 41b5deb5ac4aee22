package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-switchboard/internal/config"
	"github.com/MKhiriev/go-switchboard/internal/handler"
	"github.com/MKhiriev/go-switchboard/internal/logger"
	"github.com/MKhiriev/go-switchboard/internal/server"
	"github.com/MKhiriev/go-switchboard/internal/transport"
	"github.com/MKhiriev/go-switchboard/internal/workers"
	"google.golang.org/grpc/credentials"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("switchboard-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	var creds credentials.TransportCredentials
	if cfg.TLS.CertFile != "" {
		creds, err = credentials.NewServerTLSFromFile(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			log.Fatal().Err(err).Msg("error loading TLS credentials")
		}
	}

	pool := workers.NewPool(cfg.Dispatch.Workers, cfg.Dispatch.QueueSize, log)
	workers.NewGroup(pool).Run()
	defer pool.Stop()

	srv := server.New(
		transport.New(log),
		server.WithLogger(log),
		server.WithExecutor(pool),
	)

	if err := srv.AddService(handler.NewDemo(log).Desc()); err != nil {
		log.Fatal().Err(err).Msg("error registering demo service")
	}

	port, err := srv.ListenOn(cfg.Server.Address, creds)
	if err != nil {
		log.Fatal().Err(err).Msg("error binding listening port")
	}

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}

	log.Info().Int("port", port).Msg("serving")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	<-ctx.Done()

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.GracefulStop(drainCtx); err != nil {
		log.Error().Err(err).Msg("graceful stop did not complete")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
