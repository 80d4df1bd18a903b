package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/motogestor/dashclient/internal/buildinfo"
	"github.com/motogestor/dashclient/internal/client/cli"
	"github.com/motogestor/dashclient/internal/client/config"
	"github.com/motogestor/dashclient/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)
	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
