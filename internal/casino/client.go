package casino

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/peteski22/offersync/internal/offers"
)

// offersPath is the casino offers endpoint, relative to the brand site.
const offersPath = "/api/casino/casino-offers/v1"

// Client is a casino-offers API client.
type Client struct {
	// baseURL is the base URL for API requests.
	baseURL string

	// brand is sent in every request body.
	brand Brand

	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// Brand returns the brand this client requests offers for.
func (c *Client) Brand() Brand {
	return c.brand
}

// Offers fetches the offers for an account. When req.OfferCode is empty all offers are returned.
//
// A 403 yields ErrAuthExpired, a 503 yields ErrUnavailable, other non-2xx statuses yield a
// *ProtocolError, and network or decoding failures yield a *TransientError.
func (c *Client) Offers(ctx context.Context, req OffersRequest) ([]offers.Offer, error) {
	body, err := json.Marshal(offersRequestBody{
		Brand:     c.brand,
		LoyaltyID: req.LoyaltyID,
		OfferCode: req.OfferCode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+offersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Account-Id", req.AccountID)
	httpReq.Header.Set("Authorization", bearer(req.Token))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("executing request: %w", ctx.Err())
		}
		return nil, &TransientError{Err: fmt.Errorf("executing request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("decoding response: %w", ctx.Err())
		}
		return nil, &TransientError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	return result.toDomainOffers(), nil
}

// Offer fetches a single offer by code. It returns an error when the response does not contain
// an offer with the requested code.
func (c *Client) Offer(ctx context.Context, req OffersRequest) (*offers.Offer, error) {
	code := strings.TrimSpace(req.OfferCode)
	if code == "" {
		return nil, fmt.Errorf("offer code is required")
	}
	req.OfferCode = code

	batch, err := c.Offers(ctx, req)
	if err != nil {
		return nil, err
	}

	for i := range batch {
		if offers.SameCode(batch[i].Code, code) {
			return &batch[i], nil
		}
	}

	return nil, fmt.Errorf("offer %s not found in response", code)
}

// bearer formats the authorization header value without doubling the scheme.
func bearer(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

// checkStatus maps a non-2xx response onto the error taxonomy.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthExpired, resp.StatusCode)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrUnavailable, string(body))
	default:
		return &ProtocolError{Body: string(body), StatusCode: resp.StatusCode}
	}
}

// NewClient creates a new casino-offers API client.
func NewClient(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = defaultBaseURL(o.brand)
	}

	return &Client{
		baseURL:    baseURL,
		brand:      o.brand,
		httpClient: httpClient,
	}, nil
}
