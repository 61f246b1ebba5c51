package httpclient

import (
	"net"
	"net/http"

	"github.com/smartplatform/gateway/internal/infra/config"
)

// NewTransport builds the pooled transport shared by outbound provider calls.
func NewTransport(cfg config.HTTPClientConfig) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}
}

// New creates an HTTP client over NewTransport. ResponseTimeout bounds the
// whole exchange, including reading the body.
func New(cfg config.HTTPClientConfig) *http.Client {
	return &http.Client{
		Transport: NewTransport(cfg),
		Timeout:   cfg.ResponseTimeout,
	}
}
