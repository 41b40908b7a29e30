// Package httpclient builds the retrying HTTP clients shared by the Provider
// and Aquarius clients and routes their logs through zap.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// maxBody bounds how much of a response is read into memory.
const maxBody = 32 << 20

// Options tune a client built by New.
type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// New returns a retryablehttp client that retries connection errors and 5xx
// responses and hands the last response back to the caller instead of
// swallowing it once retries are exhausted.
func New(o Options) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	if o.Timeout > 0 {
		c.HTTPClient.Timeout = o.Timeout
	}
	if o.RetryMax > 0 {
		c.RetryMax = o.RetryMax
	}
	if o.RetryWaitMin > 0 {
		c.RetryWaitMin = o.RetryWaitMin
	}
	if o.RetryWaitMax > 0 {
		c.RetryWaitMax = o.RetryWaitMax
	}
	c.Logger = zapLogger{l: zap.L().Named("http")}
	c.ErrorHandler = keepLastResponse
	return c
}

// keepLastResponse returns the final response of an exhausted retry loop so
// its status and body reach the caller.
func keepLastResponse(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Do sends method url with body (nil for none) and reads the whole response.
// Only transport failures are returned as errors; non-2xx statuses are left
// for the caller to classify.
func Do(ctx context.Context, c *retryablehttp.Client, method, url string, body []byte, contentType string) (*Response, error) {
	var raw any
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, raw)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			zap.L().Debug("failed to close response body", zap.String("url", url), zap.Error(cerr))
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: bytes.TrimSpace(b)}, nil
}

// zapLogger adapts zap to retryablehttp.LeveledLogger.
type zapLogger struct {
	l *zap.Logger
}

func (z zapLogger) Error(msg string, kv ...any) { z.l.Sugar().Errorw(msg, kv...) }
func (z zapLogger) Info(msg string, kv ...any)  { z.l.Sugar().Debugw(msg, kv...) }
func (z zapLogger) Debug(msg string, kv ...any) { z.l.Sugar().Debugw(msg, kv...) }
func (z zapLogger) Warn(msg string, kv ...any)  { z.l.Sugar().Warnw(msg, kv...) }

var _ retryablehttp.LeveledLogger = zapLogger{}
