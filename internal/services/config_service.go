package services

import (
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"zapperd/internal/confstore"
	"zapperd/internal/models"
	"zapperd/internal/providers"
	"zapperd/internal/structures"
)

var ErrInvalidConfiguration = errors.New("configuration violates schema invariants")

// ExportScope selects what Export encodes: the local user's own device
// list, or the entire configuration.
const (
	ExportScopeDevices = "devices"
	ExportScopeFull    = "full"
)

type ConfigServiceInterface interface {
	Get() *models.Configuration
	Replace(conf *models.Configuration) error
	Apply(conf *models.Configuration)
	RemoveConnection(id string)
	Export(scope string) ([]byte, error)
	ResolveTargets(deviceIDs []string) []DispatchTarget
	AllTargets() []DispatchTarget
	CountDevices() int
	CountConnections() int
	Restore() error
	Persist() error
}

// ConfigService owns the in-memory configuration. Reads hand out deep
// copies; writes go through the debouncer so a burst of edits coalesces
// into one disk write.
type ConfigService struct {
	mu          sync.RWMutex
	current     *models.Configuration
	fileManager *confstore.FileManager
	debouncer   *confstore.Debouncer
	filePath    string
	logger      providers.Logger
}

func NewConfigService(conf *structures.Config, fileManager *confstore.FileManager, logger providers.Logger) ConfigServiceInterface {
	cs := &ConfigService{
		current:     models.NewDefaultConfiguration(),
		fileManager: fileManager,
		filePath:    conf.Persistence.FilePath,
		logger:      logger,
	}
	cs.debouncer = confstore.NewDebouncer(conf.Persistence.DebounceDelay, cs.flush)
	return cs
}

func (cs *ConfigService) flush(conf *models.Configuration) {
	if err := cs.fileManager.SaveToFile(conf, cs.filePath); err != nil {
		cs.logger.Errorf(providers.TypeApp, "Error while persisting configuration: %s", err)
		return
	}
	cs.logger.Debugf(providers.TypeApp, "Persisted configuration to %s", cs.filePath)
}

func (cs *ConfigService) Get() *models.Configuration {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.current.Clone()
}

// Replace installs a new configuration after checking invariants. Used
// by the explicit configuration PUT.
func (cs *ConfigService) Replace(conf *models.Configuration) error {
	if conf == nil || !conf.Valid() {
		return ErrInvalidConfiguration
	}
	cs.Apply(conf)
	return nil
}

// Apply installs a configuration without re-validating it, for values
// that already passed through the classifier or a merge. The full
// import path may legitimately carry an older schema version, so it
// lands here verbatim.
func (cs *ConfigService) Apply(conf *models.Configuration) {
	clone := conf.Clone()

	cs.mu.Lock()
	cs.current = clone
	cs.mu.Unlock()

	cs.debouncer.Schedule(clone)
}

func (cs *ConfigService) RemoveConnection(id string) {
	cs.mu.Lock()
	next := cs.current.Clone()
	next.RemoveConnection(id)
	cs.current = next
	cs.mu.Unlock()

	cs.debouncer.Schedule(next)
}

// Export returns the JSON share payload for the requested scope: the
// local user's device list, or the whole configuration. Callers encode
// it for transport (base64 share blob or relay envelope).
func (cs *ConfigService) Export(scope string) ([]byte, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	var payload any
	switch scope {
	case ExportScopeDevices:
		self, ok := cs.current.Self()
		if !ok {
			return nil, ErrInvalidConfiguration
		}
		payload = self.Devices
	case ExportScopeFull:
		payload = cs.current
	default:
		return nil, fmt.Errorf("unknown export scope %q", scope)
	}

	return json.Marshal(payload)
}

// ResolveTargets maps device ids to dispatch targets, pairing each
// device with its owning user's webhook id. Unknown ids are skipped.
func (cs *ConfigService) ResolveTargets(deviceIDs []string) []DispatchTarget {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	wanted := make(map[string]struct{}, len(deviceIDs))
	for _, id := range deviceIDs {
		wanted[id] = struct{}{}
	}

	var targets []DispatchTarget
	for _, user := range cs.current.Connections {
		for i := range user.Devices {
			if _, ok := wanted[user.Devices[i].ID]; ok {
				targets = append(targets, DispatchTarget{
					Device:  user.Devices[i].Clone(),
					Webhook: user.Webhook,
				})
			}
		}
	}
	return targets
}

// AllTargets returns every known device, used by the panic stop.
func (cs *ConfigService) AllTargets() []DispatchTarget {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	var targets []DispatchTarget
	for _, user := range cs.current.Connections {
		for i := range user.Devices {
			targets = append(targets, DispatchTarget{
				Device:  user.Devices[i].Clone(),
				Webhook: user.Webhook,
			})
		}
	}
	return targets
}

func (cs *ConfigService) CountDevices() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	count := 0
	for _, user := range cs.current.Connections {
		count += len(user.Devices)
	}
	return count
}

func (cs *ConfigService) CountConnections() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.current.Connections)
}

// Restore loads the persisted configuration on startup. A migrated
// version 1 shape is re-persisted immediately; a missing file keeps the
// fresh default identity generated at construction.
func (cs *ConfigService) Restore() error {
	conf, migrated, err := cs.fileManager.LoadFromFile(cs.filePath)
	if err != nil {
		return err
	}
	if conf == nil {
		cs.logger.Infof(providers.TypeApp, "No stored configuration, starting with a fresh identity")
		return nil
	}

	cs.mu.Lock()
	cs.current = conf
	cs.mu.Unlock()

	if migrated {
		cs.flush(conf)
	}
	return nil
}

// Persist flushes any pending debounced write. Called on shutdown.
func (cs *ConfigService) Persist() error {
	cs.debouncer.Flush()
	return nil
}

// ProvideConfigStats exposes the service under the narrow interface the
// metrics gauges consume.
func ProvideConfigStats(cs ConfigServiceInterface) providers.ConfigStatsInterface {
	return cs
}
