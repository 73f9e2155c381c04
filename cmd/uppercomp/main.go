package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/satindergrewal/uppercomp/internal/config"
	"github.com/satindergrewal/uppercomp/internal/engine"
	"github.com/satindergrewal/uppercomp/internal/logging"
	"github.com/satindergrewal/uppercomp/internal/paint"
	"github.com/satindergrewal/uppercomp/internal/stream"
	"github.com/satindergrewal/uppercomp/internal/surface"
	"github.com/satindergrewal/uppercomp/internal/web"
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

	log.Info("uppercomp starting up...")

	// Demo engine behind the Patch Bridge
	eng, err := engine.New(engine.Config{Source: cfg.Source, Monitor: cfg.Monitor}, logger)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	go eng.Run(ctx)

	// Broadcasters: monitor PCM and surface frames
	var pcm *stream.Broadcaster[[]int16]
	if cfg.Monitor {
		pcm = stream.NewBroadcaster[[]int16](stream.PCMBuffer)
		go pcm.Run(ctx, eng.Frames())
	} else {
		log.Info("Monitor audio disabled (set UPPERCOMP_MONITOR=true to enable)")
	}
	frames := stream.NewBroadcaster[surface.Frame](stream.FrameBuffer)

	// Control surface
	surf := surface.New(eng, cfg.Surface(), logger, frames.Publish)
	surf.Start(ctx)
	defer surf.Stop()

	webrtcHandler := stream.NewWebRTCHandler(surf, frames, pcm, logger)

	// HTTP routes
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(web.IndexHTML)
	})

	mux.Handle("/ws", stream.NewControlHandler(surf, frames, logger))
	mux.Handle("/offer", webrtcHandler)
	if pcm != nil {
		mux.Handle("/monitor.mp3", stream.NewMonitorHandler(pcm, logger))
	}
	mux.Handle("/snapshot.png", stream.SnapshotHandler(surf, paint.NewPainter(cfg.WindowScale), logger))
	mux.Handle("/api/frame", stream.FrameHandler(surf))
	mux.Handle("/api/params", stream.ParamsHandler())

	server := &http.Server{Addr: cfg.Addr(), Handler: mux}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down...")
		server.Close()
	}()

	log.Infof("uppercomp live on %s", cfg.Addr())
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("HTTP server error", "error", err)
	}
}
