//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"todolist/config"
	"todolist/infras/metrics"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/infras/redis"
	"todolist/internal/domains/todo/model"
	todoRepository "todolist/internal/domains/todo/repository"
	todoService "todolist/internal/domains/todo/service"
	healthHandler "todolist/internal/handlers/health"
	todoHandler "todolist/internal/handlers/todo"
	"todolist/shared/cache"
	"todolist/transport/http"
	"todolist/transport/http/middleware"
	"todolist/transport/http/router"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	metrics.NewRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	metrics.NewCollector,
	wire.Bind(new(metrics.Recorder), new(*metrics.Collector)),
)

var middlewares = wire.NewSet(
	middleware.NewLimiter,
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var todoDomain = wire.NewSet(
	model.DefaultStatusTransitions,
	todoRepository.New,
	todoService.New,
)

var domains = wire.NewSet(
	todoDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	todoHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
