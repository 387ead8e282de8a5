package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/remoteindex/remoteindex/cmd/cli/commands"
	"github.com/remoteindex/remoteindex/internal/logger"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
