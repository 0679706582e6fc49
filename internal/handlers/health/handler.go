package health

import (
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"todolist/config"
	"todolist/shared/constant"
	"todolist/transport/http/response"
)

type Handler struct {
	cfg          *config.Config
	shuttingDown *atomic.Bool
}

type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

func New(cfg *config.Config) Handler {
	return Handler{
		cfg:          cfg,
		shuttingDown: &atomic.Bool{},
	}
}

// MarkShuttingDown makes the health check fail so load balancers stop routing traffic here.
func (h Handler) MarkShuttingDown() {
	h.shuttingDown.Store(true)
}

func (h Handler) Router(r chi.Router) {
	r.Get("/", h.Info)
	r.Get("/health", h.Health)
}

// Health reports liveness.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} response.Message
// @Router /health [get]
func (h Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if h.shuttingDown.Load() {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithJSON(w, http.StatusOK, HealthResponse{
		Status:      constant.HealthStatusHealthy,
		Environment: h.cfg.Server.Env,
	})
}

// Info describes the running service.
// @Summary Service info
// @Tags Health
// @Produce json
// @Success 200 {object} InfoResponse
// @Router / [get]
func (h Handler) Info(w http.ResponseWriter, _ *http.Request) {
	response.WithJSON(w, http.StatusOK, InfoResponse{
		Name:    h.cfg.App.Name,
		Version: h.cfg.App.Version,
		Status:  constant.AppStatusRunning,
	})
}
