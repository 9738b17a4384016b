// Package httpx builds the retrying http client shared by content and media
// fetches.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"karolbroda.com/residences/internal/config"
)

const (
	userAgent  = "residences/1.0"
	maxRetries = 2
)

var (
	ErrNotFound = errors.New("not found")
	ErrTooLarge = errors.New("response too large")
)

// NewClient returns a retrying client that logs through logger.
func NewClient(logger *slog.Logger) *retryablehttp.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     60 * time.Second,
		TLSHandshakeTimeout: 2 * time.Second,
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   time.Duration(config.HTTPTimeoutSeconds) * time.Second,
	}
	client.RetryMax = maxRetries
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	// the default logger writes to stderr, which belongs to the tui
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}
	return client
}

// Get fetches url. a body longer than limit bytes fails with ErrTooLarge.
func Get(ctx context.Context, client *retryablehttp.Client, url string, limit int64) ([]byte, error) {
	if client == nil {
		client = NewClient(nil)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s returned status %d: %s", url, resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", url, ErrTooLarge, limit)
	}
	return data, nil
}
