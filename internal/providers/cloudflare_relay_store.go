package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zapperd/internal/structures"
)

const cloudflareAPIBase = "https://api.cloudflare.com/client/v4"

// CloudflareRelayStore proxies blobs to a Cloudflare Workers KV
// namespace: one value per share code with a server-side expiration_ttl.
type CloudflareRelayStore struct {
	account   string
	namespace string
	token     string
	baseURL   string
	client    *http.Client
	logger    Logger
}

func NewCloudflareRelayStore(conf *structures.Config, logger Logger) (*CloudflareRelayStore, error) {
	cf := conf.Relay.Cloudflare
	if cf.Account == "" || cf.Namespace == "" || cf.Token == "" {
		return nil, ErrRelayNotConfigured
	}

	return &CloudflareRelayStore{
		account:   cf.Account,
		namespace: cf.Namespace,
		token:     cf.Token,
		baseURL:   cloudflareAPIBase,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    logger,
	}, nil
}

func (s *CloudflareRelayStore) valueURL(key string) string {
	return fmt.Sprintf("%s/accounts/%s/storage/kv/namespaces/%s/values/%s",
		s.baseURL, s.account, s.namespace, key)
}

func (s *CloudflareRelayStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	url := fmt.Sprintf("%s?expiration_ttl=%d", s.valueURL(key), int(ttl.Seconds()))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, strings.NewReader(value))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Errorf(TypeApp, "Relay put failed: %s", err)
		return ErrRelayUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Errorf(TypeApp, "Cloudflare API error on put: status=%d body=%s", resp.StatusCode, body)
		return &RelayRejectedError{StatusCode: resp.StatusCode}
	}

	return nil
}

func (s *CloudflareRelayStore) Get(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.valueURL(key), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Errorf(TypeApp, "Relay get failed: %s", err)
		return "", ErrRelayUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrRelayNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Errorf(TypeApp, "Cloudflare API error on get: status=%d body=%s", resp.StatusCode, body)
		return "", &RelayRejectedError{StatusCode: resp.StatusCode}
	}

	value, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ErrRelayUnreachable
	}
	return string(value), nil
}
