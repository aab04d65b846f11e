package testutil

import (
	"context"
	"sync"
	"time"

	"zapperd/internal/models"
	"zapperd/internal/providers"
	"zapperd/internal/services"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockRelayStore implements providers.RelayStoreInterface with an
// in-memory map plus injectable errors.
type MockRelayStore struct {
	mu       sync.Mutex
	Data     map[string]string
	TTLs     map[string]time.Duration
	PutErr   error
	GetErr   error
	PutCalls int
	GetCalls int
}

func NewMockRelayStore() *MockRelayStore {
	return &MockRelayStore{
		Data: make(map[string]string),
		TTLs: make(map[string]time.Duration),
	}
}

func (m *MockRelayStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	m.Data[key] = value
	m.TTLs[key] = ttl
	return nil
}

func (m *MockRelayStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return "", m.GetErr
	}
	value, ok := m.Data[key]
	if !ok {
		return "", providers.ErrRelayNotFound
	}
	return value, nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// observations by label.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        map[string]int
	RelayPuts       map[string]int
	RelayGets       map[string]int
	Imports         map[string]int
	ShocksTotal     int
	StopsTotal      int
	DurationSamples int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:  make(map[string]int),
		RelayPuts: make(map[string]int),
		RelayGets: make(map[string]int),
		Imports:   make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DurationSamples++
}

func (m *MockMetrics) IncRelayPut(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelayPuts[outcome]++
}

func (m *MockMetrics) IncRelayGet(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RelayGets[outcome]++
}

func (m *MockMetrics) IncImport(kind string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Imports[kind+":"+outcome]++
}

func (m *MockMetrics) AddShocksDispatched(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ShocksTotal += count
}

func (m *MockMetrics) AddStopsDispatched(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopsTotal += count
}

// MockConfigService implements services.ConfigServiceInterface around a
// plain Configuration value.
type MockConfigService struct {
	mu           sync.Mutex
	Current      *models.Configuration
	ReplaceErr   error
	ExportErr    error
	ExportData   []byte
	RestoreErr   error
	PersistErr   error
	ReplaceCalls []*models.Configuration
	ApplyCalls   []*models.Configuration
	RemovedIDs   []string
	Targets      []services.DispatchTarget
	RestoreCount int
	PersistCount int
}

func NewMockConfigService(conf *models.Configuration) *MockConfigService {
	if conf == nil {
		conf = models.NewDefaultConfiguration()
	}
	return &MockConfigService{Current: conf}
}

func (m *MockConfigService) Get() *models.Configuration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Current.Clone()
}

func (m *MockConfigService) Replace(conf *models.Configuration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceCalls = append(m.ReplaceCalls, conf)
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.Current = conf
	return nil
}

func (m *MockConfigService) Apply(conf *models.Configuration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyCalls = append(m.ApplyCalls, conf)
	m.Current = conf
}

func (m *MockConfigService) RemoveConnection(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemovedIDs = append(m.RemovedIDs, id)
}

func (m *MockConfigService) Export(string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExportErr != nil {
		return nil, m.ExportErr
	}
	return m.ExportData, nil
}

func (m *MockConfigService) ResolveTargets(deviceIDs []string) []services.DispatchTarget {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(deviceIDs) == 0 {
		return nil
	}
	var out []services.DispatchTarget
	for _, t := range m.Targets {
		for _, id := range deviceIDs {
			if t.Device.ID == id {
				out = append(out, t)
			}
		}
	}
	return out
}

func (m *MockConfigService) AllTargets() []services.DispatchTarget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Targets
}

func (m *MockConfigService) CountDevices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, user := range m.Current.Connections {
		count += len(user.Devices)
	}
	return count
}

func (m *MockConfigService) CountConnections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Current.Connections)
}

func (m *MockConfigService) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCount++
	return m.RestoreErr
}

func (m *MockConfigService) Persist() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCount++
	return m.PersistErr
}

// MockRelayService implements services.RelayServiceInterface.
type MockRelayService struct {
	mu       sync.Mutex
	PutCode  string
	PutErr   error
	GetData  []byte
	GetErr   error
	WrapErr  error
	PutCalls []string
	GetCalls []string
	Wrapped  [][]byte
}

func (m *MockRelayService) Put(_ context.Context, payload string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, payload)
	if m.PutErr != nil {
		return "", m.PutErr
	}
	return m.PutCode, nil
}

func (m *MockRelayService) Get(_ context.Context, code string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, code)
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.GetData, nil
}

func (m *MockRelayService) WrapEnvelope(inner []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Wrapped = append(m.Wrapped, inner)
	if m.WrapErr != nil {
		return "", m.WrapErr
	}
	return string(inner), nil
}

// MockImportService implements services.ImportServiceInterface and
// returns a canned result.
type MockImportService struct {
	mu     sync.Mutex
	Result services.ImportResult
	Calls  []ImportCall
}

type ImportCall struct {
	Data   string
	Kinds  []models.PayloadKind
	Target string
}

func (m *MockImportService) Import(data string, kinds []models.PayloadKind, _ *models.Configuration, target string) services.ImportResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, ImportCall{Data: data, Kinds: kinds, Target: target})
	return m.Result
}

// MockDispatchService implements services.DispatchServiceInterface.
type MockDispatchService struct {
	mu            sync.Mutex
	DispatchCalls []DispatchCall
	StopCalls     [][]services.DispatchTarget
}

type DispatchCall struct {
	Targets []services.DispatchTarget
	Shock   models.Shock
}

func (m *MockDispatchService) BuildURL(webhookID string, device models.Device, _ models.Shock, _ bool) string {
	return "mock://" + webhookID + "/" + device.Webhook
}

func (m *MockDispatchService) Dispatch(_ context.Context, targets []services.DispatchTarget, shock models.Shock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DispatchCalls = append(m.DispatchCalls, DispatchCall{Targets: targets, Shock: shock})
}

func (m *MockDispatchService) Stop(_ context.Context, targets []services.DispatchTarget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls = append(m.StopCalls, targets)
}
