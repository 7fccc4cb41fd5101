package main

import (
	"os"

	"github.com/okandemir/studenthub/internal/pkg/logger"
	"github.com/okandemir/studenthub/internal/server"
)

// @title StudentHub API
// @version 1.0
// @description Student records management backend

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully")
}
