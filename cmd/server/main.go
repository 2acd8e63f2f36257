package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"topicshare-go/internal/config"
	"topicshare-go/internal/handler"
	"topicshare-go/internal/service"
	"topicshare-go/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Configuration file path")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	_ = godotenv.Load()
	if *debug {
		os.Setenv("DEBUG", "true")
	}

	cfg, err := config.NewManager().Load(*configPath)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	logger.SetLogger(log)
	logger.SetGlobalLogger(log)

	// Analysis runs hold the connection while the SERP fan-out completes,
	// so the write window stays generous.
	app := fiber.New(fiber.Config{
		AppName:      "topicshare-go",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
	})

	controller := handler.NewController(cfg, service.NewAnalysisService(cfg))
	controller.Register(app)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Listen(addr)
	}()

	log.WithField("addr", addr).Info("Server started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.WithError(err).Fatal("Server failed")
		}
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}

	log.Info("Server stopped")
}
