package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"zapperd/internal/models"
	"zapperd/internal/providers"
	"zapperd/internal/structures"
)

// DispatchTarget pairs a device with its owning user's webhook id.
type DispatchTarget struct {
	Device  models.Device
	Webhook string
}

// DispatchServiceInterface fans shock commands out to the actuator
// network. Fire-and-forget: the relay gives no delivery confirmation,
// so neither do we.
type DispatchServiceInterface interface {
	BuildURL(webhookID string, device models.Device, shock models.Shock, supportsFrequency bool) string
	Dispatch(ctx context.Context, targets []DispatchTarget, shock models.Shock)
	Stop(ctx context.Context, targets []DispatchTarget)
}

type DispatchService struct {
	baseURL string
	client  *http.Client
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewDispatchService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) DispatchServiceInterface {
	return &DispatchService{
		baseURL: strings.TrimRight(conf.Dispatch.BaseURL, "/"),
		client:  &http.Client{Timeout: conf.Dispatch.Timeout},
		logger:  logger,
		metrics: metrics,
	}
}

// BuildURL produces the fully parameterized actuator request. Parameter
// order is fixed: action, power, duration, ramp, then frequency only
// when the device supports it and the shock carries one. The URL itself
// is the full credential; there is no signing.
func (ds *DispatchService) BuildURL(webhookID string, device models.Device, shock models.Shock, supportsFrequency bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s?action=%s",
		ds.baseURL,
		url.PathEscape(webhookID),
		url.QueryEscape("zapper-v2.0-"+device.Webhook))
	fmt.Fprintf(&b, "&power=%d&duration=%d&ramp=%d", shock.Intensity, shock.Duration, shock.RampTime)
	if supportsFrequency && shock.Frequency != nil {
		fmt.Fprintf(&b, "&frequency=%d", *shock.Frequency)
	}
	return b.String()
}

// Dispatch issues one request per target concurrently and returns once
// all have been attempted. Individual failures are dropped silently.
func (ds *DispatchService) Dispatch(ctx context.Context, targets []DispatchTarget, shock models.Shock) {
	shock.Clamp()

	var wg sync.WaitGroup
	for _, target := range targets {
		reqURL := ds.BuildURL(target.Webhook, target.Device, shock, target.Device.SupportsFrequency)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds.fire(ctx, reqURL)
		}()
	}
	wg.Wait()

	ds.metrics.AddShocksDispatched(len(targets))
}

// Stop issues the null shock to every target, frequency support forced
// off. The panic/halt action.
func (ds *DispatchService) Stop(ctx context.Context, targets []DispatchTarget) {
	nullShock := models.NullShock()

	var wg sync.WaitGroup
	for _, target := range targets {
		reqURL := ds.BuildURL(target.Webhook, target.Device, nullShock, false)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds.fire(ctx, reqURL)
		}()
	}
	wg.Wait()

	ds.metrics.AddStopsDispatched(len(targets))
}

func (ds *DispatchService) fire(ctx context.Context, reqURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		ds.logger.Debugf(providers.TypeApp, "Dispatch request build failed: %s", err)
		return
	}

	resp, err := ds.client.Do(req)
	if err != nil {
		ds.logger.Debugf(providers.TypeApp, "Dispatch request dropped: %s", err)
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
