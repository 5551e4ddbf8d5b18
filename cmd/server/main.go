package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/dvfviz/dvfserve/pkg/config"
	"github.com/dvfviz/dvfserve/pkg/server"
)

func main() {
	log.Println("Starting DVF aggregation server...")

	cfg := config.Load()
	log.Printf("Configuration: snapshot=%s port=%s", cfg.SnapshotFile, cfg.Port)

	handler, hub := server.Initialize(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	log.Println("WebSocket hub started")

	root := server.SetupRoutes(mux.NewRouter(), handler, hub)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		log.Println("API endpoints:")
		log.Println("   GET  /api/dvf/years                                   - Available years")
		log.Println("   GET  /api/dvf/arrondissements?year=&type_local=       - Arrondissement summary")
		log.Println("   GET  /api/dvf/arrondissements/{code}/timeseries       - District time series")
		log.Println("   GET  /api/dvf/stats                                   - Dataset statistics")
		log.Println("   POST /api/cache/reload                                - Reload snapshot")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	log.Println("Gracefully shutting down server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown warning: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("All background tasks stopped cleanly")
	case <-time.After(config.ShutdownDrainWait):
		log.Println("Some background tasks did not stop in time (forcing exit)")
	}

	log.Println("Server exited cleanly")
}
