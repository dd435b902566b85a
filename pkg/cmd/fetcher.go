package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"phishfeatures/pkg/features"

	"golang.org/x/net/html/charset"
)

// PageFetcher retrieves the live page behind a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*features.Page, error)
}

const (
	maxRedirects = 30
	maxBodyBytes = 10 << 20
)

var errTooManyRedirects = errors.New("too many redirects")

// HTTPFetcher is the net/http PageFetcher.
type HTTPFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPFetcher creates a fetcher with a reusable client.
func NewHTTPFetcher(timeout time.Duration, insecureSkipVerify bool, userAgent string) *HTTPFetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: insecureSkipVerify},
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("exceeded %d redirects: %w", maxRedirects, errTooManyRedirects)
			}
			return nil
		},
	}

	return &HTTPFetcher{httpClient: httpClient, userAgent: userAgent}
}

// Fetch implements PageFetcher. Any HTTP status is a successful fetch; only
// transport, redirect and decoding failures are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*features.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("could not decode body: %w", err)
	}
	text, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("could not read body: %w", err)
	}

	return &features.Page{
		StatusCode: resp.StatusCode,
		Body:       string(text),
		Redirects:  redirectCount(resp),
	}, nil
}

// redirectCount walks back from the final response through every redirect
// response that led to it.
func redirectCount(resp *http.Response) int {
	n := 0
	for req := resp.Request; req != nil && req.Response != nil; req = req.Response.Request {
		n++
	}
	return n
}
