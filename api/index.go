package handler

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"todolist/config"
	"todolist/di"
	"todolist/shared/logger"
)

var (
	buildOnce sync.Once
	app       http.Handler
	appErr    error

	// build wires the application. Connection pools and the tracer provider live as long as
	// the warm instance.
	build = func() (http.Handler, error) {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetOutput(cfg, os.Stdout)
		logger.SetLogLevel(cfg)

		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}

		return di.InitializeService().Handler(), nil
	}
)

func loadApp() (http.Handler, error) {
	buildOnce.Do(func() {
		app, appErr = build()
	})

	return app, appErr
}

// Handler serves one request on a serverless runtime.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	handler, err := loadApp()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize application")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	handler.ServeHTTP(w, r)
}
