package providers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapperd/internal/structures"
)

func cloudflareConfig() *structures.Config {
	conf := &structures.Config{}
	conf.Relay.Cloudflare = structures.CloudflareConfig{
		Account:   "acct",
		Namespace: "ns",
		Token:     "secret-token",
	}
	return conf
}

func newCloudflareTestStore(t *testing.T, handler http.Handler) (*CloudflareRelayStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewCloudflareRelayStore(cloudflareConfig(), nopLogger{})
	require.NoError(t, err)
	store.baseURL = srv.URL
	return store, srv
}

func TestNewCloudflareRelayStore_RequiresCredentials(t *testing.T) {
	conf := &structures.Config{}
	_, err := NewCloudflareRelayStore(conf, nopLogger{})
	assert.ErrorIs(t, err, ErrRelayNotConfigured)

	conf.Relay.Cloudflare.Account = "acct"
	_, err = NewCloudflareRelayStore(conf, nopLogger{})
	assert.ErrorIs(t, err, ErrRelayNotConfigured)
}

func TestCloudflareRelayStore_Put(t *testing.T) {
	var mu sync.Mutex
	var gotPath, gotAuth, gotTTL, gotBody string
	store, _ := newCloudflareTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotTTL = r.URL.Query().Get("expiration_ttl")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	err := store.Put(context.Background(), "33333", "payload", 24*time.Hour)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/accounts/acct/storage/kv/namespaces/ns/values/33333", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "86400", gotTTL)
	assert.Equal(t, "payload", gotBody)
}

func TestCloudflareRelayStore_PutRejected(t *testing.T) {
	store, _ := newCloudflareTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	err := store.Put(context.Background(), "33333", "payload", time.Hour)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRelayRejected)

	var rejected *RelayRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusTooManyRequests, rejected.StatusCode)
}

func TestCloudflareRelayStore_Get(t *testing.T) {
	store, _ := newCloudflareTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"devices":"e30="}`))
	}))

	value, err := store.Get(context.Background(), "33333")
	require.NoError(t, err)
	assert.Equal(t, `{"devices":"e30="}`, value)
}

func TestCloudflareRelayStore_GetNotFound(t *testing.T) {
	store, _ := newCloudflareTestStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := store.Get(context.Background(), "33333")
	assert.ErrorIs(t, err, ErrRelayNotFound)
}

func TestCloudflareRelayStore_Unreachable(t *testing.T) {
	store, err := NewCloudflareRelayStore(cloudflareConfig(), nopLogger{})
	require.NoError(t, err)
	store.baseURL = "http://127.0.0.1:1"

	assert.ErrorIs(t, store.Put(context.Background(), "33333", "p", time.Hour), ErrRelayUnreachable)
	_, err = store.Get(context.Background(), "33333")
	assert.ErrorIs(t, err, ErrRelayUnreachable)
}
