package services

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	json "github.com/goccy/go-json"

	"zapperd/internal/codes"
	"zapperd/internal/providers"
	"zapperd/internal/structures"
)

var (
	ErrEmptyPayload = errors.New("payload is empty")
	ErrInvalidCode  = errors.New("invalid code format")
	ErrBadEnvelope  = errors.New("stored value is not a valid envelope")
)

// relayEnvelope is the transport shape stored under a share code: a
// JSON object carrying the base64-encoded inner payload. The field name
// is a legacy of the device-sharing origin of the format.
type relayEnvelope struct {
	Devices string `json:"devices"`
}

// RelayServiceInterface is the temporary share path: Put stores an
// opaque blob under a freshly generated code, Get retrieves and unwraps
// it. Both cross the network on every call.
type RelayServiceInterface interface {
	Put(ctx context.Context, payload string) (string, error)
	Get(ctx context.Context, code string) ([]byte, error)
	WrapEnvelope(inner []byte) (string, error)
}

type RelayService struct {
	store   providers.RelayStoreInterface
	ttl     time.Duration
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewRelayService(conf *structures.Config, store providers.RelayStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) RelayServiceInterface {
	return &RelayService{
		store:   store,
		ttl:     conf.Relay.TTL,
		logger:  logger,
		metrics: metrics,
	}
}

// Put stores payload under a new share code with the configured TTL and
// returns the code.
func (rs *RelayService) Put(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		rs.metrics.IncRelayPut("rejected")
		return "", ErrEmptyPayload
	}

	code := codes.Generate()
	if err := rs.store.Put(ctx, code, payload, rs.ttl); err != nil {
		rs.metrics.IncRelayPut("error")
		return "", err
	}

	rs.logger.Infof(providers.TypeApp, "Stored relay blob under code %s", code)
	rs.metrics.IncRelayPut("ok")
	return code, nil
}

// Get validates the code, fetches the stored envelope and returns the
// decoded inner JSON.
func (rs *RelayService) Get(ctx context.Context, code string) ([]byte, error) {
	if !codes.Validate(code) {
		rs.metrics.IncRelayGet("invalid_code")
		return nil, ErrInvalidCode
	}

	value, err := rs.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, providers.ErrRelayNotFound) {
			rs.metrics.IncRelayGet("not_found")
		} else {
			rs.metrics.IncRelayGet("error")
		}
		return nil, err
	}

	inner, err := unwrapEnvelope(value)
	if err != nil {
		rs.logger.Errorf(providers.TypeApp, "Relay blob under %s is not decodable: %s", code, err)
		rs.metrics.IncRelayGet("bad_envelope")
		return nil, ErrBadEnvelope
	}

	rs.metrics.IncRelayGet("ok")
	return inner, nil
}

// WrapEnvelope builds the transport envelope around an inner JSON
// payload, ready for Put.
func (rs *RelayService) WrapEnvelope(inner []byte) (string, error) {
	envelope := relayEnvelope{
		Devices: base64.StdEncoding.EncodeToString(inner),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unwrapEnvelope(value string) ([]byte, error) {
	var envelope relayEnvelope
	if err := json.Unmarshal([]byte(value), &envelope); err != nil {
		return nil, err
	}
	if envelope.Devices == "" {
		return nil, ErrBadEnvelope
	}

	inner, err := base64.StdEncoding.DecodeString(envelope.Devices)
	if err != nil {
		return nil, err
	}

	var probe any
	if err := json.Unmarshal(inner, &probe); err != nil {
		return nil, err
	}
	return inner, nil
}
