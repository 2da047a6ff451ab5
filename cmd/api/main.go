package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/studylens/studylens/internal/app"
	"github.com/studylens/studylens/internal/config"
	"github.com/studylens/studylens/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer lg.Sync()

	application, err := app.NewApp(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", "err", err)
	}
	defer application.Close()

	lg.Info("studylens is running; DB connected and bootstrapped")
	if err := application.Server.Run(ctx); err != nil {
		lg.Fatal("server error", "err", err)
	}
}
