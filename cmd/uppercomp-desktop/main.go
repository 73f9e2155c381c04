package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/satindergrewal/uppercomp/internal/config"
	"github.com/satindergrewal/uppercomp/internal/desktop"
	"github.com/satindergrewal/uppercomp/internal/engine"
	"github.com/satindergrewal/uppercomp/internal/logging"
	"github.com/satindergrewal/uppercomp/internal/surface"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()
	log := logger.Sugar()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// the window has no audio output
	eng, err := engine.New(engine.Config{Source: cfg.Source}, logger)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	go eng.Run(ctx)

	surf := surface.New(eng, cfg.Surface(), logger, nil)
	surf.Start(ctx)
	defer surf.Stop()

	log.Infof("Opening window at %.1fx", cfg.WindowScale)
	if err := desktop.NewWindow(ctx, surf, cfg.WindowScale).Run("UpperComp"); err != nil {
		log.Errorf("window: %v", err)
	}
}
