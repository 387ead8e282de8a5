package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/remoteindex/remoteindex/config"
	"github.com/remoteindex/remoteindex/internal/app"
	"github.com/remoteindex/remoteindex/internal/logger"
	"github.com/remoteindex/remoteindex/internal/scheduler"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	engine, err := app.NewEngine()
	if err != nil {
		logger.Fatalf("failed to initialize engine: %v", err)
	}

	if config.GetEnvBool(config.EnvSyncCronEnabled, false) {
		sched := scheduler.New(engine.Sync, engine.Discovery, config.GetEnv(config.EnvSyncCronSpec, "@every 5m"))
		if err := sched.Start(context.Background()); err != nil {
			logger.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	server := engine.NewServer()
	port := config.GetEnv(config.EnvPort, "8080")
	logger.Fatal(server.Listen(":" + port))
}
