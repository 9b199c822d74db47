package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/expressdata/internal/buildinfo"
	"github.com/dmitrijs2005/expressdata/internal/client/cli"
	"github.com/dmitrijs2005/expressdata/internal/client/config"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, closeStore, err := cli.Build(ctx, cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn(ctx, "close local store", "error", err)
		}
	}()

	app.Run(ctx)

}
