// Command corepointd serves core-point detection over HTTP.
//
// Configuration comes from the environment; see internal/config. Routes:
//
//	POST   /v1/detect   multipart upload, field "image"
//	GET    /v1/stats
//	DELETE /v1/stats
//	GET    /health
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cwbudde/algo-corepoint/corepoint"
	"github.com/cwbudde/algo-corepoint/internal/config"
	"github.com/cwbudde/algo-corepoint/internal/logging"
	"github.com/cwbudde/algo-corepoint/internal/transport"
)

func main() {
	log := logging.Default()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	gin.SetMode(gin.ReleaseMode)
	det := corepoint.New(cfg.Detection,
		corepoint.WithLogger(log),
		corepoint.WithMaxWorkers(cfg.MaxWorkers),
	)
	log.WithField("kernel", det.Kernel()).Info(corepoint.SystemInfo())

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      transport.NewHandler(det, cfg, log),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		log.WithField("address", cfg.ServerAddress()).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
	log.Info("Server exited")
}
