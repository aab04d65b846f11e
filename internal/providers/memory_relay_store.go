package providers

import (
	"context"
	"time"

	"github.com/coocood/freecache"

	"zapperd/internal/structures"
)

// MemoryRelayStore keeps relay blobs in an in-process freecache. Blobs
// do not survive a restart, which is acceptable for development and
// single-machine setups given the 24h share TTL.
type MemoryRelayStore struct {
	cache *freecache.Cache
}

func NewMemoryRelayStore(conf *structures.Config, logger Logger) *MemoryRelayStore {
	sizeBytes := conf.Relay.CacheSize * 1024 * 1024
	logger.Infof(TypeApp, "Memory relay store initialized: %dMB", conf.Relay.CacheSize)
	return &MemoryRelayStore{cache: freecache.NewCache(sizeBytes)}
}

func (s *MemoryRelayStore) Put(_ context.Context, key, value string, ttl time.Duration) error {
	err := s.cache.Set([]byte(key), []byte(value), int(ttl.Seconds()))
	if err != nil {
		return ErrRelayRejected
	}
	return nil
}

func (s *MemoryRelayStore) Get(_ context.Context, key string) (string, error) {
	value, err := s.cache.Get([]byte(key))
	if err != nil {
		return "", ErrRelayNotFound
	}
	return string(value), nil
}
