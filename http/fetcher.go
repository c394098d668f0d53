// Package http provides the lightweight implementation of crawlx.Fetcher:
// a direct HTTP GET with browser-like headers and no script execution.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/stealth"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// MaxBodySize caps how much of a response body is read. Larger bodies
// fail with ErrBodyTooLarge rather than being truncated.
const MaxBodySize = 10 << 20

// ErrBodyTooLarge is wrapped in the FetchError for bodies over MaxBodySize.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// maxRedirects matches the net/http default.
const maxRedirects = 10

// Ensure Fetcher implements crawlx.Fetcher at compile time.
var _ crawlx.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript. It follows
// redirects and never retries; retry policy belongs to the caller.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent func() string
	chromeTLS bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the user-agent generator. Defaults to
// stealth.UserAgent.
func WithUserAgent(fn func() string) Option {
	return func(f *Fetcher) {
		f.userAgent = fn
	}
}

// WithChromeTLS makes HTTPS connections present a Chrome TLS fingerprint.
// Connections are limited to HTTP/1.1.
func WithChromeTLS() Option {
	return func(f *Fetcher) {
		f.chromeTLS = true
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: stealth.UserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if f.chromeTLS {
		transport.DialTLSContext = newChromeTLSDialer(nil)
		transport.ForceAttemptHTTP2 = false
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return f
}

// Fetch retrieves the HTML content from the given URL. Any non-2xx
// response is a *crawlx.FetchError carrying the status code; transport
// failures and timeouts are a *crawlx.FetchError with a zero status.
func (f *Fetcher) Fetch(ctx context.Context, url string, _ crawlx.FetchOptions) (*crawlx.RenderedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, crawlx.Errorf(crawlx.EINVALID, "invalid URL %q: %v", url, err)
	}
	setBrowserHeaders(req, f.userAgent())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &crawlx.FetchError{URL: url, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &crawlx.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &crawlx.FetchError{URL: url, Err: err}
	}
	if len(body) > MaxBodySize {
		return nil, &crawlx.FetchError{URL: url, Err: ErrBodyTooLarge}
	}

	return &crawlx.RenderedPage{
		HTML: string(body),
		URL:  resp.Request.URL.String(),
	}, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

func setBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// unwrapURLError strips the *url.Error wrapper so the FetchError message
// does not repeat the method and URL.
func unwrapURLError(err error) error {
	var uerr *neturl.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
