package main

import (
	"context"
	"log"
	"os"

	"github.com/fatih/color"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/nonsonwune/cgpa_tracker/config"
	"github.com/nonsonwune/cgpa_tracker/console"
	"github.com/nonsonwune/cgpa_tracker/storage"
	"github.com/nonsonwune/cgpa_tracker/util"
)

func init() {
	// Load .env file if present
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, closer, err := util.NewLogger(cfg.LogDir, "cgpa", cfg.LogLevel)
	if err != nil {
		color.Yellow("Warning: logging disabled: %v", err)
		logger = gokitlog.NewNopLogger()
	} else {
		defer closer.Close()
	}

	ctx := context.Background()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "failed to open store", "err", err)
		log.Fatal(err)
	}
	defer store.Close()

	console.NewSession(os.Stdin, os.Stdout, store, logger, cfg.ExportFile).Run(ctx)
}
