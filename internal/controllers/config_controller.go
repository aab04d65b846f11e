package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"zapperd/internal/models"
	"zapperd/internal/providers"
	"zapperd/internal/services"
)

var allKinds = []models.PayloadKind{models.KindDevice, models.KindConnection, models.KindFull}

// ConfigController serves the configuration itself plus the share
// paths: import/export blobs and relay share codes.
type ConfigController struct {
	logger   providers.Logger
	config   services.ConfigServiceInterface
	importer services.ImportServiceInterface
	relay    services.RelayServiceInterface
}

func NewConfigController(logger providers.Logger, config services.ConfigServiceInterface, importer services.ImportServiceInterface, relay services.RelayServiceInterface) *ConfigController {
	return &ConfigController{
		logger:   logger,
		config:   config,
		importer: importer,
		relay:    relay,
	}
}

func (cc *ConfigController) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cc.config.Get())
}

func (cc *ConfigController) PutConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var conf models.Configuration
	if err := json.NewDecoder(r.Body).Decode(&conf); err != nil {
		writeError(w, http.StatusBadRequest, "Request body is not a valid configuration.")
		return
	}

	if err := cc.config.Replace(&conf); err != nil {
		writeError(w, http.StatusBadRequest, "Configuration violates schema invariants.")
		return
	}

	writeJSON(w, http.StatusOK, cc.config.Get())
}

type importRequest struct {
	Data    string               `json:"data"`
	Kinds   []models.PayloadKind `json:"kinds"`
	Target  string               `json:"target"`
	Confirm bool                 `json:"confirm"`
}

// Import classifies and merges a pasted share blob. A full
// configuration replace is irreversible, so it only lands when the
// request carries an explicit confirmation.
func (cc *ConfigController) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	if req.Data == "" {
		writeError(w, http.StatusBadRequest, "No import data provided.")
		return
	}

	cc.runImport(w, req)
}

type importCodeRequest struct {
	Code    string `json:"code"`
	Target  string `json:"target"`
	Confirm bool   `json:"confirm"`
}

// ImportCode redeems a relay share code and feeds the stored payload
// into the import engine with every kind accepted.
func (cc *ConfigController) ImportCode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req importCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	inner, err := cc.relay.Get(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCode):
			writeError(w, http.StatusBadRequest, "Invalid key format.")
		case errors.Is(err, providers.ErrRelayNotFound):
			writeError(w, http.StatusNotFound, "Key not found or has expired.")
		case errors.Is(err, services.ErrBadEnvelope):
			writeError(w, http.StatusInternalServerError, "Stored value is not valid JSON.")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to connect to KV store.")
		}
		return
	}

	cc.runImport(w, importRequest{
		Data:    string(inner),
		Target:  req.Target,
		Confirm: req.Confirm,
	})
}

func (cc *ConfigController) runImport(w http.ResponseWriter, req importRequest) {
	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = allKinds
	}

	result := cc.importer.Import(req.Data, kinds, cc.config.Get(), req.Target)

	if result.Kind == models.KindFull && result.Modified == services.OutcomeChanged && !req.Confirm {
		result.Modified = services.OutcomeRejected
		result.Status = "Confirmation required to overwrite entire configuration"
		result.Config = cc.config.Get()
		writeJSON(w, http.StatusOK, result)
		return
	}

	if result.Modified == services.OutcomeChanged {
		cc.config.Apply(result.Config)
	}

	writeJSON(w, http.StatusOK, result)
}

type shareRequest struct {
	Scope string `json:"scope"`
}

// Share encodes the requested scope, wraps it in the relay envelope and
// stores it under a fresh share code.
func (cc *ConfigController) Share(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}
	if req.Scope == "" {
		req.Scope = services.ExportScopeDevices
	}

	payload, err := cc.config.Export(req.Scope)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown export scope.")
		return
	}

	envelope, err := cc.relay.WrapEnvelope(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	code, err := cc.relay.Put(r.Context(), envelope)
	if err != nil {
		if errors.Is(err, providers.ErrRelayNotConfigured) {
			writeError(w, http.StatusInternalServerError, "Relay credentials are not configured.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to write to KV store.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": code})
}

// Export returns the base64 share blob for copy-paste sharing.
func (cc *ConfigController) Export(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope == "" {
		scope = services.ExportScopeDevices
	}

	payload, err := cc.config.Export(scope)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown export scope.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"data": base64.StdEncoding.EncodeToString(payload),
	})
}

func (cc *ConfigController) RemoveConnection(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Connection id is missing.")
		return
	}

	cc.config.RemoveConnection(id)
	writeJSON(w, http.StatusOK, cc.config.Get())
}
