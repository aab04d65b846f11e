package controllers

import (
	"errors"
	"io"
	"net/http"

	"zapperd/internal/providers"
	"zapperd/internal/services"
)

// RelayController is the thin HTTP wrapper over the blob relay: PUT an
// opaque payload, get back a share code; GET a code, get back the
// decoded inner JSON.
type RelayController struct {
	logger providers.Logger
	relay  services.RelayServiceInterface
}

func NewRelayController(logger providers.Logger, relay services.RelayServiceInterface) *RelayController {
	return &RelayController{logger: logger, relay: relay}
}

func (rc *RelayController) PutBlob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body.")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "Request body is empty.")
		return
	}

	code, err := rc.relay.Put(r.Context(), string(body))
	if err != nil {
		rc.writeRelayError(w, err, "Failed to write to KV store.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": code})
}

func (rc *RelayController) GetBlob(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Key parameter is missing.")
		return
	}

	inner, err := rc.relay.Get(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode):
			writeError(w, http.StatusBadRequest, "Invalid key format.")
		case errors.Is(err, providers.ErrRelayNotFound):
			writeError(w, http.StatusNotFound, "Key not found or has expired.")
		case errors.Is(err, services.ErrBadEnvelope):
			writeError(w, http.StatusInternalServerError, "Stored value is not valid JSON.")
		default:
			rc.writeRelayError(w, err, "Failed to read from KV store.")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(inner)
}

// writeRelayError maps store-level failures: missing credentials and
// unreachable store are 500s, a store rejection passes the upstream
// status through.
func (rc *RelayController) writeRelayError(w http.ResponseWriter, err error, rejectedMsg string) {
	var rejected *providers.RelayRejectedError
	switch {
	case errors.Is(err, providers.ErrRelayNotConfigured):
		writeError(w, http.StatusInternalServerError, "Relay credentials are not configured.")
	case errors.Is(err, services.ErrEmptyPayload):
		writeError(w, http.StatusBadRequest, "Request body is empty.")
	case errors.As(err, &rejected):
		writeError(w, rejected.StatusCode, rejectedMsg)
	case errors.Is(err, providers.ErrRelayRejected):
		writeError(w, http.StatusBadGateway, rejectedMsg)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to connect to KV store.")
	}
}
