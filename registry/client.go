package registry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"mini-app-gateway/metrics"
	model "mini-app-gateway/models"

	"github.com/cenk/backoff"
	"github.com/facebookgo/clock"
	"github.com/imroc/req"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/ubuntu/decorate"
)

// Envelope codes of the registry API
const (
	codeSuccess  = 0
	codeNotFound = 40400
)

// Client talks to the registry service JSON API
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	threshold int64
	clock     clock.Clock

	httpClient *http.Client
	r          *req.Req
	breaker    *circuit.Breaker

	resolver  *dnscache.Resolver
	stop      chan struct{}
	closeOnce sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, bypassing the DNS-cached transport.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithBreakerThreshold sets how many consecutive failures open the breaker.
func WithBreakerThreshold(n int64) Option {
	return func(cl *Client) {
		cl.threshold = n
	}
}

// WithClock sets the breaker clock.
func WithClock(c clock.Clock) Option {
	return func(cl *Client) {
		cl.clock = c
	}
}

// NewClient creates a registry client for baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	cl := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "mini-app-gateway/1.0",
		timeout:   3 * time.Second,
		threshold: 5,
		clock:     clock.New(),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cl)
	}

	if cl.httpClient == nil {
		cl.httpClient = cl.newCachedHTTPClient()
	}

	cl.r = req.New()
	cl.r.SetClient(cl.httpClient)

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 5 * time.Second
	expBackoff.MaxInterval = time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.MaxElapsedTime = 0
	expBackoff.Clock = cl.clock
	expBackoff.Reset()

	cl.breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		Clock:      cl.clock,
		ShouldTrip: circuit.ThresholdTripFunc(cl.threshold),
	})

	return cl
}

// newCachedHTTPClient builds an HTTP client whose dialer resolves through a refreshed DNS cache
func (cl *Client) newCachedHTTPClient() *http.Client {
	cl.resolver = &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cl.resolver.Refresh(true)
			case <-cl.stop:
				return
			}
		}
	}()

	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Timeout: cl.timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				if net.ParseIP(host) != nil {
					return dialer.DialContext(ctx, network, addr)
				}
				ips, err := cl.resolver.LookupHost(ctx, host)
				if err != nil {
					return nil, err
				}
				for _, ip := range ips {
					conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
					if err == nil {
						return conn, nil
					}
				}
				return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
			},
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}
}

// GetApp fetches one app. Not-found yields (nil, nil) and does not count against the breaker.
func (cl *Client) GetApp(ctx context.Context, appID string) (app *model.AppMetadata, err error) {
	defer decorate.OnError(&err, "registry lookup %q", appID)

	err = cl.breaker.Call(func() error {
		var fetchErr error
		app, fetchErr = cl.fetchApp(ctx, appID)
		return fetchErr
	}, 0)

	switch {
	case errors.Is(err, circuit.ErrBreakerOpen):
		metrics.RecordRegistryLookup("breaker_open")
		return nil, fmt.Errorf("%w: circuit breaker open", ErrRegistryUnavailable)
	case err != nil:
		metrics.RecordRegistryLookup("error")
		log.WithField("app_id", appID).Warnf("Registry lookup failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	case app == nil:
		metrics.RecordRegistryLookup("not_found")
		return nil, nil
	}

	metrics.RecordRegistryLookup("found")
	return app, nil
}

func (cl *Client) fetchApp(ctx context.Context, appID string) (*model.AppMetadata, error) {
	endpoint := cl.baseURL + "/api/v1/apps/" + url.PathEscape(appID)

	resp, err := cl.r.Get(endpoint, req.Header{
		"User-Agent": cl.userAgent,
		"Accept":     "application/json",
	}, ctx)
	if err != nil {
		return nil, err
	}

	status := resp.Response().StatusCode
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", status)
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, err
	}
	return parseAppEnvelope(body)
}

// parseAppEnvelope decodes {code,message,data} returned by the registry
func parseAppEnvelope(body []byte) (*model.AppMetadata, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid registry response")
	}

	switch code := gjson.GetBytes(body, "code").Int(); code {
	case codeSuccess:
	case codeNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("registry error %d: %s", code, gjson.GetBytes(body, "message").String())
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsObject() || data.Get("app_id").String() == "" {
		return nil, nil
	}

	app := &model.AppMetadata{
		AppID:          data.Get("app_id").String(),
		Name:           data.Get("name").String(),
		Description:    data.Get("description").String(),
		Icon:           data.Get("icon").String(),
		DeveloperName:  data.Get("developer_name").String(),
		Category:       model.ParseCategory(data.Get("category").String()),
		ApprovalStatus: model.ApprovalStatus(data.Get("approval_status").String()),
	}
	if r := data.Get("rating"); r.Type == gjson.Number {
		rating := r.Float()
		app.Rating = &rating
	}
	if ms := data.Get("created_at").Int(); ms > 0 {
		app.CreatedAt = time.UnixMilli(ms)
	}
	if ms := data.Get("updated_at").Int(); ms > 0 {
		app.UpdatedAt = time.UnixMilli(ms)
	}
	return app, nil
}

// BreakerOpen reports whether lookups are currently short-circuited
func (cl *Client) BreakerOpen() bool {
	return cl.breaker.Tripped()
}

// Close stops the DNS refresh loop
func (cl *Client) Close() {
	cl.closeOnce.Do(func() {
		close(cl.stop)
	})
}
