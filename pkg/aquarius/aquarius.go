// Package aquarius is a client for the Aquarius metadata cache: DDO
// validation before publication, resolution of published assets and waiting
// for the indexer to pick up a new asset.
package aquarius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/shamank/ocean-c2d-go/internal/httpclient"
	"github.com/shamank/ocean-c2d-go/pkg/model"
)

var (
	// ErrInvalidDDO is returned when Aquarius rejects a DDO.
	ErrInvalidDDO = errors.New("invalid ddo")
	// ErrNotIndexed is returned when an asset does not show up in time.
	ErrNotIndexed = errors.New("asset not indexed")
)

const (
	validatePath = "/api/aquarius/assets/ddo/validate"
	ddoPath      = "/api/aquarius/assets/ddo/"
)

// Error is an unexpected Aquarius response.
type Error struct {
	Path   string
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("aquarius %s: status %d: %s", e.Path, e.Status, e.Body)
}

// ValidationProof is the validator signature returned with a valid DDO.
type ValidationProof struct {
	ValidatorAddress string
	R                string
	S                string
	V                int
}

// ValidationResult is the outcome of Validate. Hash is the metadata hash to
// publish on chain; Errors holds the raw rejection payload.
type ValidationResult struct {
	Valid  bool
	Hash   string
	Proof  *ValidationProof
	Errors json.RawMessage
}

// Client talks to one Aquarius instance.
type Client struct {
	baseURL      string
	http         *retryablehttp.Client
	pollInterval time.Duration
	waitBudget   time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the retrying HTTP client.
func WithHTTPClient(c *retryablehttp.Client) Option {
	return func(a *Client) { a.http = c }
}

// WithPolling sets the first polling interval and the total wait budget of
// WaitForAqua.
func WithPolling(interval, budget time.Duration) Option {
	return func(a *Client) {
		if interval > 0 {
			a.pollInterval = interval
		}
		if budget > 0 {
			a.waitBudget = budget
		}
	}
}

// New returns a client for the Aquarius at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         httpclient.New(httpclient.Options{Timeout: timeout}),
		pollInterval: 1500 * time.Millisecond,
		waitBudget:   150 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// URL returns the Aquarius base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// Ping checks that Aquarius answers its root document.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := httpclient.Do(ctx, c.http, http.MethodGet, c.baseURL+"/", nil, "")
	if err != nil {
		return fmt.Errorf("aquarius root: %w", err)
	}
	if !resp.OK() {
		return &Error{Path: "/", Status: resp.Status, Body: string(resp.Body)}
	}
	return nil
}

type validateResponse struct {
	Hash      string          `json:"hash"`
	PublicKey string          `json:"publicKey"`
	R         json.RawMessage `json:"r"`
	S         json.RawMessage `json:"s"`
	V         int             `json:"v"`
}

// Validate submits ddo for schema validation. A rejected DDO returns the
// result together with an error wrapping ErrInvalidDDO; server failures are
// *Error.
func (c *Client) Validate(ctx context.Context, ddo *model.DDO) (*ValidationResult, error) {
	body, err := json.Marshal(ddo)
	if err != nil {
		return nil, fmt.Errorf("encode ddo: %w", err)
	}

	resp, err := httpclient.Do(ctx, c.http, http.MethodPost, c.baseURL+validatePath, body, "application/octet-stream")
	if err != nil {
		return nil, fmt.Errorf("aquarius validate: %w", err)
	}

	switch {
	case resp.Status == http.StatusOK:
		var v validateResponse
		if err := json.Unmarshal(resp.Body, &v); err != nil {
			return nil, fmt.Errorf("decode validate response: %w", err)
		}
		return &ValidationResult{
			Valid: true,
			Hash:  v.Hash,
			Proof: &ValidationProof{
				ValidatorAddress: v.PublicKey,
				R:                firstString(v.R),
				S:                firstString(v.S),
				V:                v.V,
			},
		}, nil
	case resp.Status >= 500:
		return nil, &Error{Path: validatePath, Status: resp.Status, Body: string(resp.Body)}
	default:
		res := &ValidationResult{Valid: false, Errors: json.RawMessage(resp.Body)}
		return res, fmt.Errorf("%w: %s", ErrInvalidDDO, resp.Body)
	}
}

// Resolve fetches the indexed DDO for did.
func (c *Client) Resolve(ctx context.Context, did string) (*model.DDO, error) {
	path := ddoPath + url.PathEscape(did)
	resp, err := httpclient.Do(ctx, c.http, http.MethodGet, c.baseURL+path, nil, "")
	if err != nil {
		return nil, fmt.Errorf("aquarius resolve: %w", err)
	}
	if !resp.OK() {
		return nil, &Error{Path: path, Status: resp.Status, Body: string(resp.Body)}
	}

	var ddo model.DDO
	if err := json.Unmarshal(resp.Body, &ddo); err != nil {
		return nil, fmt.Errorf("decode ddo %s: %w", did, err)
	}
	return &ddo, nil
}

// WaitForAqua polls Resolve until did is indexed. When txID is not empty it
// also waits until the indexed publication event matches txID, so a metadata
// update is not mistaken for the previous version. Running out of the wait
// budget yields ErrNotIndexed.
func (c *Client) WaitForAqua(ctx context.Context, did, txID string) (*model.DDO, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.pollInterval
	b.Multiplier = 1.5
	b.MaxInterval = 4 * c.pollInterval
	b.MaxElapsedTime = c.waitBudget

	var (
		ddo      *model.DDO
		attempts int
	)
	op := func() error {
		attempts++
		d, err := c.Resolve(ctx, did)
		if err != nil {
			var aerr *Error
			if errors.As(err, &aerr) && aerr.Status != http.StatusNotFound && aerr.Status < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		if txID != "" && (d.Event == nil || !strings.EqualFold(d.Event.Tx, txID)) {
			return fmt.Errorf("indexed event does not match tx %s", txID)
		}
		ddo = d
		return nil
	}
	notify := func(err error, next time.Duration) {
		zap.L().Debug("waiting for aquarius", zap.String("did", did), zap.Int("attempt", attempts),
			zap.Duration("next", next), zap.Error(err))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var aerr *Error
		if errors.As(err, &aerr) && aerr.Status != http.StatusNotFound && aerr.Status < 500 {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrNotIndexed, did, attempts, err)
	}
	return ddo, nil
}

// firstString decodes a JSON string or the first element of a string list.
func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
