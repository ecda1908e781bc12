package handlers

import (
	"context"
	"time"

	xhttp "github.com/nimasrn/record-shop/pkg/http"
	"github.com/nimasrn/record-shop/pkg/logger"
)

const healthTimeout = 2 * time.Second

// Pinger is satisfied by *pg.DB and the redis adapter.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps map[string]Pinger
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func RegisterHealthRoutes(e xhttp.Routes, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		deps: deps,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	pctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(h.deps))}
	status := xhttp.StatusOK
	for name, dep := range h.deps {
		if err := dep.Ping(pctx); err != nil {
			logger.Warn("health check failed", "dependency", name, "error", err)
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			status = xhttp.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}
	xhttp.WriteJSON(ctx, status, resp)
}
