package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"zapperd/internal/models"
	"zapperd/internal/providers"
)

// MergeOutcome is the tri-state result of an import: the merge changed
// the configuration, was rejected, or matched but produced an identical
// configuration.
type MergeOutcome int

const (
	OutcomeRejected MergeOutcome = iota
	OutcomeChanged
	OutcomeNoop
)

func (o MergeOutcome) String() string {
	switch o {
	case OutcomeChanged:
		return "changed"
	case OutcomeNoop:
		return "noop"
	default:
		return "rejected"
	}
}

// MarshalJSON keeps the wire shape of the original panel: true /
// false / null.
func (o MergeOutcome) MarshalJSON() ([]byte, error) {
	switch o {
	case OutcomeChanged:
		return []byte("true"), nil
	case OutcomeNoop:
		return []byte("null"), nil
	default:
		return []byte("false"), nil
	}
}

// ImportResult always carries a usable configuration: the merged one on
// success, the caller's own on rejection.
type ImportResult struct {
	Config   *models.Configuration `json:"config"`
	Modified MergeOutcome          `json:"modified"`
	Status   string                `json:"status"`
	Kind     models.PayloadKind    `json:"type,omitempty"`
}

type ImportServiceInterface interface {
	Import(data string, kinds []models.PayloadKind, conf *models.Configuration, target string) ImportResult
}

type ImportService struct {
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewImportService(logger providers.Logger, metrics providers.MetricsProviderInterface) ImportServiceInterface {
	return &ImportService{logger: logger, metrics: metrics}
}

// decodePayload accepts either raw JSON or a base64-encoded JSON
// string, so callers never need to know which form they are holding.
func decodePayload(data string) (any, bool) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, false
	}

	var raw any
	if err := json.Unmarshal([]byte(trimmed), &raw); err == nil {
		return raw, true
	}

	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal(decoded, &raw); err != nil {
		return nil, false
	}
	return raw, true
}

func kindAccepted(kind models.PayloadKind, kinds []models.PayloadKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Import classifies the payload and merges it into a deep copy of conf.
// The caller's configuration is never mutated; every failure path
// returns it unchanged. Target names the user that receives unmatched
// devices, defaulting to the local user.
func (is *ImportService) Import(data string, kinds []models.PayloadKind, conf *models.Configuration, target string) ImportResult {
	raw, ok := decodePayload(data)
	if !ok {
		is.logger.Debugf(providers.TypeApp, "Import payload could not be decoded")
		is.metrics.IncImport("unknown", OutcomeRejected.String())
		return ImportResult{Config: conf, Modified: OutcomeRejected, Status: "Failed to decode"}
	}

	classified, ok := models.Classify(raw)
	if !ok || !kindAccepted(classified.Kind, kinds) {
		is.metrics.IncImport("unknown", OutcomeRejected.String())
		return ImportResult{Config: conf, Modified: OutcomeRejected, Status: "Unsupported payload type"}
	}

	var result ImportResult
	switch classified.Kind {
	case models.KindDevice:
		result = is.mergeDevices(conf, classified.Devices, target)
	case models.KindConnection:
		result = is.mergeConnection(conf, classified.User)
	case models.KindFull:
		// The only path that discards the local identity. Replaces
		// everything verbatim, no merging.
		result = ImportResult{
			Config:   classified.Config,
			Modified: OutcomeChanged,
			Status:   "Overwriting entire configuration",
		}
	}

	result.Kind = classified.Kind
	is.metrics.IncImport(string(classified.Kind), result.Modified.String())
	return result
}

func (is *ImportService) mergeDevices(conf *models.Configuration, devices []models.Device, target string) ImportResult {
	if target == "" {
		target = conf.ID
	}
	if _, ok := conf.Connections[target]; !ok {
		return ImportResult{Config: conf, Modified: OutcomeRejected, Status: "Unknown target user"}
	}

	clone := conf.Clone()
	updated, added := 0, 0

	for i := range devices {
		incoming := devices[i]

		// Matching runs across every user's device list on purpose:
		// a device someone already shared must not be re-imported
		// under a different owner.
		owner := ""
		idx := -1
		for userID := range clone.Connections {
			user := clone.Connections[userID]
			if j := user.FindDevice(&incoming); j != -1 {
				owner, idx = userID, j
				break
			}
		}

		if idx != -1 {
			user := clone.Connections[owner]
			user.Devices[idx].Name = incoming.Name
			if incoming.Location != nil {
				loc := *incoming.Location
				user.Devices[idx].Location = &loc
			}
			clone.Connections[owner] = user
			updated++
		} else {
			user := clone.Connections[target]
			user.Devices = append(user.Devices, incoming.Clone())
			clone.Connections[target] = user
			added++
		}
	}

	status := deviceMergeStatus(updated, added)
	if clone.Equal(conf) {
		return ImportResult{Config: clone, Modified: OutcomeNoop, Status: status}
	}
	return ImportResult{Config: clone, Modified: OutcomeChanged, Status: status}
}

func deviceMergeStatus(updated, added int) string {
	switch {
	case updated > 0 && added > 0:
		return fmt.Sprintf("Updated %d and imported %d new %s", updated, added, plural(added, "device"))
	case updated > 0:
		return fmt.Sprintf("Updated %d %s", updated, plural(updated, "device"))
	default:
		return fmt.Sprintf("Imported %d new %s", added, plural(added, "device"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func (is *ImportService) mergeConnection(conf *models.Configuration, user *models.User) ImportResult {
	clone := conf.Clone()

	incoming := user.Clone()
	if incoming.Devices == nil {
		incoming.Devices = []models.Device{}
	}

	var status string
	if _, exists := clone.Connections[incoming.ID]; exists {
		status = fmt.Sprintf("Replacing existing devices for %s", incoming.Name)
	} else {
		status = fmt.Sprintf("Importing devices for new user %s", incoming.Name)
	}
	clone.Connections[incoming.ID] = incoming

	if clone.Equal(conf) {
		return ImportResult{Config: clone, Modified: OutcomeNoop, Status: status}
	}
	return ImportResult{Config: clone, Modified: OutcomeChanged, Status: status}
}
