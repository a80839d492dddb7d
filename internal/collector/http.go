package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"PricePredictor/internal/model"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) PricePredictor/1.0"

// NewHTTPClient builds the provider client with optional proxy support.
func NewHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// get performs one GET and returns the body and status. Transport and read
// failures are reported as model.ErrNetwork; the status is left to the caller.
func get(ctx context.Context, client *http.Client, endpoint string, header http.Header) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read body: %v", model.ErrNetwork, err)
	}
	return body, resp.StatusCode, nil
}

// statusError reports a non-200 provider answer.
func statusError(provider string, status int, body []byte) error {
	const limit = 256
	if len(body) > limit {
		body = body[:limit]
	}
	return fmt.Errorf("%w: %s: status %d, body: %s", model.ErrNetwork, provider, status, string(body))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
