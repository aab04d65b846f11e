package controllers

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"

	"zapperd/internal/models"
	"zapperd/internal/providers"
	"zapperd/internal/services"
)

// ShockController turns device selections into outbound actuator
// requests. Dispatches run on a background context: once fired they are
// not cancellable, matching the relay's own semantics.
type ShockController struct {
	logger   providers.Logger
	config   services.ConfigServiceInterface
	dispatch services.DispatchServiceInterface
}

func NewShockController(logger providers.Logger, config services.ConfigServiceInterface, dispatch services.DispatchServiceInterface) *ShockController {
	return &ShockController{
		logger:   logger,
		config:   config,
		dispatch: dispatch,
	}
}

type shockRequest struct {
	Devices []string     `json:"devices"`
	Shock   models.Shock `json:"shock"`
}

func (sc *ShockController) Shock(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req shockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	if len(req.Devices) == 0 {
		writeError(w, http.StatusBadRequest, "No devices selected.")
		return
	}

	targets := sc.config.ResolveTargets(req.Devices)
	if len(targets) == 0 {
		writeError(w, http.StatusBadRequest, "No known devices match the selection.")
		return
	}

	sc.logger.Infof(providers.TypePost, "Dispatching shock to %d device(s)", len(targets))
	sc.dispatch.Dispatch(context.Background(), targets, req.Shock)

	writeJSON(w, http.StatusAccepted, map[string]int{"dispatched": len(targets)})
}

type stopRequest struct {
	Devices []string `json:"devices"`
}

// Stop halts the selected devices, or every known device when the
// selection is empty. The panic action must not fail on bad input, so
// an unreadable body degrades to stop-all.
func (sc *ShockController) Stop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req stopRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	var targets []services.DispatchTarget
	if len(req.Devices) == 0 {
		targets = sc.config.AllTargets()
	} else {
		targets = sc.config.ResolveTargets(req.Devices)
	}

	sc.logger.Infof(providers.TypePost, "Dispatching stop to %d device(s)", len(targets))
	sc.dispatch.Stop(context.Background(), targets)

	writeJSON(w, http.StatusAccepted, map[string]int{"stopped": len(targets)})
}
