package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shamank/ocean-c2d-go/internal/httpclient"
)

// Service endpoint names advertised by the Provider root document.
const (
	EndpointEncrypt             = "encrypt"
	EndpointComputeEnvironments = "computeEnvironments"
	EndpointInitializeCompute   = "initializeCompute"
	EndpointComputeStart        = "computeStart"
	EndpointComputeStatus       = "computeStatus"
	EndpointComputeResult       = "computeResult"
)

// defaultEndpoints are used when the root document cannot be read or lacks
// an entry.
var defaultEndpoints = map[string]Endpoint{
	EndpointEncrypt:             {http.MethodPost, "/api/services/encrypt"},
	EndpointComputeEnvironments: {http.MethodGet, "/api/services/computeEnvironments"},
	EndpointInitializeCompute:   {http.MethodPost, "/api/services/initializeCompute"},
	EndpointComputeStart:        {http.MethodPost, "/api/services/compute"},
	EndpointComputeStatus:       {http.MethodGet, "/api/services/compute"},
	EndpointComputeResult:       {http.MethodGet, "/api/services/computeResult"},
}

// Endpoint is one advertised Provider route.
type Endpoint struct {
	Method string
	Path   string
}

// Info is the Provider root document.
type Info struct {
	ProviderAddress  string              `json:"providerAddress"`
	Version          string              `json:"version"`
	ChainIDs         []int64             `json:"chainIds"`
	ServiceEndpoints map[string][]string `json:"serviceEndpoints"`
}

// Error is a non-2xx Provider response.
type Error struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

// Client talks to one Ocean Provider.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	info    *ttlcache.Cache[string, *Info]
	limiter *rate.Limiter
	now     func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the retrying HTTP client.
func WithHTTPClient(c *retryablehttp.Client) Option {
	return func(p *Client) { p.http = c }
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(p *Client) {
		if rps > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// WithClock replaces the clock used for request nonces.
func WithClock(now func() time.Time) Option {
	return func(p *Client) { p.now = now }
}

// New returns a client for the Provider at baseURL. Endpoint discovery
// results are cached for infoTTL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.New(httpclient.Options{Timeout: timeout}),
		info: ttlcache.New[string, *Info](
			ttlcache.WithTTL[string, *Info](infoTTL),
			ttlcache.WithDisableTouchOnHit[string, *Info](),
		),
		limiter: rate.NewLimiter(rate.Inf, 0),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const infoTTL = 10 * time.Minute

// URL returns the Provider base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// Info returns the Provider root document, cached per base URL.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	if item := c.info.Get(c.baseURL); item != nil {
		return item.Value(), nil
	}

	resp, err := httpclient.Do(ctx, c.http, http.MethodGet, c.baseURL+"/", nil, "")
	if err != nil {
		return nil, fmt.Errorf("provider root: %w", err)
	}
	if !resp.OK() {
		return nil, &Error{Endpoint: "root", Status: resp.Status, Body: string(resp.Body)}
	}

	var info Info
	if err := json.Unmarshal(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("decode provider root: %w", err)
	}
	c.info.Set(c.baseURL, &info, ttlcache.DefaultTTL)
	return &info, nil
}

// Ping checks that the Provider answers its root document.
func (c *Client) Ping(ctx context.Context) error {
	c.info.Delete(c.baseURL)
	_, err := c.Info(ctx)
	return err
}

// endpoint resolves name through the root document, falling back to the
// well-known route when discovery fails.
func (c *Client) endpoint(ctx context.Context, name string) Endpoint {
	info, err := c.Info(ctx)
	if err != nil {
		zap.L().Warn("provider endpoint discovery failed, using defaults",
			zap.String("provider", c.baseURL), zap.Error(err))
	} else if e, ok := info.ServiceEndpoints[name]; ok && len(e) == 2 {
		return Endpoint{Method: strings.ToUpper(e[0]), Path: e[1]}
	}
	return defaultEndpoints[name]
}

func (c *Client) endpointURL(e Endpoint, query url.Values) string {
	u := e.Path
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = c.baseURL + u
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send calls the named endpoint and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, name string, query url.Values, body []byte, contentType string) ([]byte, error) {
	e := c.endpoint(ctx, name)
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}
	resp, err := httpclient.Do(ctx, c.http, e.Method, c.endpointURL(e, query), body, contentType)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}
	if !resp.OK() {
		zap.L().Debug("provider error response",
			zap.String("endpoint", name),
			zap.Int("status", resp.Status),
			zap.ByteString("body", resp.Body))
		return nil, &Error{Endpoint: name, Status: resp.Status, Body: string(resp.Body)}
	}
	return resp.Body, nil
}

func (c *Client) sendJSON(ctx context.Context, name string, query url.Values, payload, out any) error {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", name, err)
		}
		body = b
	}
	raw, err := c.send(ctx, name, query, body, "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return nil
}
