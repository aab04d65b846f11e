package controllers

import (
	"fmt"
	"net/http"
	"time"

	"zapperd/internal/services"
	"zapperd/internal/structures"
)

type HealthController struct {
	config    services.ConfigServiceInterface
	backend   string
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	RelayBackend  string  `json:"relay_backend"`
	Devices       int     `json:"devices"`
	Connections   int     `json:"connections"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		RelayBackend:  hc.backend,
		Devices:       hc.config.CountDevices(),
		Connections:   hc.config.CountConnections(),
	}

	writeJSON(w, http.StatusOK, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, config services.ConfigServiceInterface) *HealthController {
	return &HealthController{
		config:    config,
		backend:   conf.Relay.Backend,
		startTime: time.Now(),
	}
}
