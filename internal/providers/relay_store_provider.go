package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zapperd/internal/structures"
)

var (
	// ErrRelayNotConfigured means required backend credentials are
	// absent. Fatal to the operation, never retried.
	ErrRelayNotConfigured = errors.New("relay store is not configured")
	// ErrRelayUnreachable means the backing store could not be reached.
	ErrRelayUnreachable = errors.New("failed to connect to relay store")
	// ErrRelayRejected means the store answered with a non-success
	// response.
	ErrRelayRejected = errors.New("relay store rejected the operation")
	// ErrRelayNotFound means the key is unknown or its TTL expired.
	ErrRelayNotFound = errors.New("relay key not found or expired")
)

// RelayRejectedError carries the store's status code so the HTTP
// surface can pass it through.
type RelayRejectedError struct {
	StatusCode int
}

func (e *RelayRejectedError) Error() string {
	return fmt.Sprintf("relay store rejected the operation: status %d", e.StatusCode)
}

func (e *RelayRejectedError) Is(target error) bool {
	return target == ErrRelayRejected
}

// RelayStoreInterface is the expiring KV store behind the share-code
// relay. Values are opaque text; every Get goes to the store, there is
// no local caching layer in front of it.
type RelayStoreInterface interface {
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

func NewRelayStoreProvider(conf *structures.Config, logger Logger) (RelayStoreInterface, error) {
	switch conf.Relay.Backend {
	case "cloudflare":
		return NewCloudflareRelayStore(conf, logger)
	case "redis":
		return NewRedisRelayStore(conf, logger), nil
	case "memory":
		return NewMemoryRelayStore(conf, logger), nil
	default:
		return nil, fmt.Errorf("unknown relay backend %q", conf.Relay.Backend)
	}
}
