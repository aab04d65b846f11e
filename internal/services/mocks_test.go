package services

import (
	"context"
	"sync"
	"time"

	"zapperd/internal/providers"
)

// --- local mocks (scoped to service tests) ---

type mockLogger struct{}

func (m *mockLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *mockLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *mockLogger) Close()                                                  {}

type mockMetrics struct {
	mu        sync.Mutex
	relayPuts map[string]int
	relayGets map[string]int
	imports   map[string]int
	shocks    int
	stops     int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		relayPuts: make(map[string]int),
		relayGets: make(map[string]int),
		imports:   make(map[string]int),
	}
}

func (m *mockMetrics) IncRequestsTotal(string, int)                 {}
func (m *mockMetrics) ObserveRequestDuration(string, time.Duration) {}

func (m *mockMetrics) IncRelayPut(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relayPuts[outcome]++
}

func (m *mockMetrics) IncRelayGet(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relayGets[outcome]++
}

func (m *mockMetrics) IncImport(kind string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports[kind+":"+outcome]++
}

func (m *mockMetrics) AddShocksDispatched(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shocks += count
}

func (m *mockMetrics) AddStopsDispatched(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops += count
}

type mockRelayStore struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	putErr error
	getErr error
}

func newMockRelayStore() *mockRelayStore {
	return &mockRelayStore{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockRelayStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockRelayStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	value, ok := m.data[key]
	if !ok {
		return "", providers.ErrRelayNotFound
	}
	return value, nil
}
