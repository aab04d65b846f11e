package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapperd/internal/codes"
	"zapperd/internal/providers"
	"zapperd/internal/structures"
)

func newTestRelayService(store providers.RelayStoreInterface, metrics *mockMetrics) RelayServiceInterface {
	conf := &structures.Config{}
	conf.Relay.TTL = time.Hour
	return NewRelayService(conf, store, &mockLogger{}, metrics)
}

func TestRelayPut_StoresUnderValidCode(t *testing.T) {
	store := newMockRelayStore()
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	code, err := rs.Put(context.Background(), `{"devices":"e30="}`)
	require.NoError(t, err)
	assert.True(t, codes.Validate(code))
	assert.Equal(t, `{"devices":"e30="}`, store.data[code])
	assert.Equal(t, time.Hour, store.ttls[code])
	assert.Equal(t, 1, metrics.relayPuts["ok"])
}

func TestRelayPut_EmptyPayload(t *testing.T) {
	store := newMockRelayStore()
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	_, err := rs.Put(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPayload)
	assert.Empty(t, store.data)
	assert.Equal(t, 1, metrics.relayPuts["rejected"])
}

func TestRelayPut_StoreError(t *testing.T) {
	store := newMockRelayStore()
	store.putErr = providers.ErrRelayUnreachable
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	_, err := rs.Put(context.Background(), "payload")
	assert.ErrorIs(t, err, providers.ErrRelayUnreachable)
	assert.Equal(t, 1, metrics.relayPuts["error"])
}

func TestRelayGet_RoundTrip(t *testing.T) {
	store := newMockRelayStore()
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	inner := []byte(`[{"id":"D1","name":"Pad","webhook":"d1"}]`)
	envelope, err := rs.WrapEnvelope(inner)
	require.NoError(t, err)

	code, err := rs.Put(context.Background(), envelope)
	require.NoError(t, err)

	got, err := rs.Get(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, inner, got)
	assert.Equal(t, 1, metrics.relayGets["ok"])
}

func TestRelayGet_InvalidCode(t *testing.T) {
	store := newMockRelayStore()
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	_, err := rs.Get(context.Background(), "ABC")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Equal(t, 1, metrics.relayGets["invalid_code"])
}

func TestRelayGet_NotFound(t *testing.T) {
	store := newMockRelayStore()
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	_, err := rs.Get(context.Background(), codes.Generate())
	assert.ErrorIs(t, err, providers.ErrRelayNotFound)
	assert.Equal(t, 1, metrics.relayGets["not_found"])
}

func TestRelayGet_BadEnvelope(t *testing.T) {
	store := newMockRelayStore()
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	code := codes.Generate()
	cases := map[string]string{
		"not json":         "not json at all",
		"missing field":    `{"other":"x"}`,
		"not base64":       `{"devices":"!!!"}`,
		"inner not json":   `{"devices":"` + base64.StdEncoding.EncodeToString([]byte("plain text")) + `"}`,
		"empty inner blob": `{"devices":""}`,
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			store.data[code] = value
			_, err := rs.Get(context.Background(), code)
			assert.ErrorIs(t, err, ErrBadEnvelope)
		})
	}
	assert.Equal(t, len(cases), metrics.relayGets["bad_envelope"])
}

func TestRelayGet_PassesThroughRejection(t *testing.T) {
	store := newMockRelayStore()
	store.getErr = &providers.RelayRejectedError{StatusCode: 503}
	metrics := newMockMetrics()
	rs := newTestRelayService(store, metrics)

	_, err := rs.Get(context.Background(), codes.Generate())
	var rejected *providers.RelayRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, 503, rejected.StatusCode)
	assert.Equal(t, 1, metrics.relayGets["error"])
}

func TestWrapEnvelope_Shape(t *testing.T) {
	rs := newTestRelayService(newMockRelayStore(), newMockMetrics())

	inner := []byte(`{"id":"D1"}`)
	envelope, err := rs.WrapEnvelope(inner)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(envelope), &decoded))
	assert.Equal(t, base64.StdEncoding.EncodeToString(inner), decoded["devices"])
}
