package router

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "todolist/docs"
	"todolist/infras/metrics"
	"todolist/internal/handlers/health"
	"todolist/internal/handlers/todo"
	"todolist/transport/http/middleware"
)

type DomainHandlers struct {
	Health health.Handler
	Todo   todo.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	middleware     middleware.AppMiddleware
	gatherer       prometheus.Gatherer
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		r.middleware.Logger,
		r.middleware.Tracing,
		r.middleware.Metrics,
		r.middleware.Recoverer,
		r.middleware.CORS(),
	)

	r.DomainHandlers.Health.Router(router)

	router.Handle("/metrics", metrics.Handler(r.gatherer))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.middleware.RateLimit())

		r.DomainHandlers.Todo.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middleware middleware.AppMiddleware, gatherer prometheus.Gatherer) Router {
	return Router{
		DomainHandlers: domainHandlers,
		middleware:     middleware,
		gatherer:       gatherer,
	}
}
