package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"todolist/config"
	"todolist/di"
	"todolist/helper"
	"todolist/shared/logger"
)

// @title Todo List API
// @version 1.0.0
// @description Todo CRUD with filtering, sorting, pagination and a status state machine.
// @BasePath /
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.SetOutput(cfg, os.Stdout)
	logger.SetLogLevel(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
