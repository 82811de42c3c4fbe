package main

import (
	"context"
	"os"

	"github.com/yigit/attendance/internal/pkg/logger"
	"github.com/yigit/attendance/internal/server"
)

// @title School Attendance API
// @version 1.0
// @description Attendance and grading API for admin, teacher and student dashboards

// @host localhost:5000
// @BasePath /
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token, required only when auth.enforce_roles is on

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
