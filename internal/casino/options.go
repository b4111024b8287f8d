package casino

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	celebrityBaseURL = "https://www.celebritycruises.com"
	royalBaseURL     = "https://www.royalcaribbean.com"
)

// Option configures optional Client settings.
type Option func(*options) error

// options holds optional configuration for creating a Client.
type options struct {
	// baseURL is the base URL for API requests. Empty means derive from brand.
	baseURL string

	// brand is sent in every request body.
	brand Brand

	// httpClient is a custom HTTP client.
	httpClient *http.Client

	// timeout is the HTTP client timeout, applied to each request independently.
	timeout time.Duration
}

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(o *options) error {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL == "" {
			return fmt.Errorf("base URL cannot be empty")
		}
		o.baseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithBrand sets the brand requested. It also selects the default base URL.
func WithBrand(brand Brand) Option {
	return func(o *options) error {
		switch brand {
		case BrandRoyal, BrandCelebrity:
			o.brand = brand
			return nil
		default:
			return fmt.Errorf("unknown brand %q", brand)
		}
	}
}

// WithHTTPClient sets a custom HTTP client. Overrides WithTimeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) error {
		if httpClient == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		o.httpClient = httpClient
		return nil
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

// defaultBaseURL returns the public site for a brand.
func defaultBaseURL(brand Brand) string {
	if brand == BrandCelebrity {
		return celebrityBaseURL
	}
	return royalBaseURL
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() *options {
	return &options{
		brand:   BrandRoyal,
		timeout: 30 * time.Second,
	}
}
