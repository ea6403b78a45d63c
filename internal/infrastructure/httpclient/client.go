// Package httpclient contains the shared pooled HTTP client used by the
// resolver, the size prober and the stream fetcher. It is constructed once
// at startup and closed once at shutdown.
package httpclient

import (
	"net/http"
	"time"
)

// Default limits mirror the upstream connection pool the service has always
// run with: a small pool with keep-alive, every request bounded by a timeout.
const (
	DefaultTimeout  = 15 * time.Second
	MaxIdleConns    = 10
	MaxConnsPerHost = 10
	IdleConnTimeout = 90 * time.Second
)

// BrowserUserAgent is sent on probe and fetch requests; several CDNs refuse
// requests with a default Go user agent.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// New creates the shared HTTP client with bounded pooling
func New() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        MaxIdleConns,
		MaxIdleConnsPerHost: MaxIdleConns,
		MaxConnsPerHost:     MaxConnsPerHost,
		IdleConnTimeout:     IdleConnTimeout,
	}

	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}

// Close releases idle connections held by the client's transport
func Close(client *http.Client) {
	if transport, ok := client.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
