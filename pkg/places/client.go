/*
Package places adapts the Google Places web service into plain Go calls.

It covers the two query endpoints the autocomplete flow needs, text
prediction search and place-detail lookup, plus the one-time capability
bootstrap. Service status strings are mapped onto sentinel errors so callers
can branch with errors.Is instead of string comparison.

The client adds no retries and no timeout of its own; cancellation and
deadlines belong to the caller's context.
*/
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	defaultBaseURL  = "https://maps.googleapis.com/maps/api/place"
	defaultLanguage = "en"
)

// Client issues autocomplete and details queries against the web service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	language   string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the pooled default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the service endpoint, mainly for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithLanguage sets the display language for results (default "en").
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// NewClient creates a places client with the given API key.
func NewClient(key string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: cleanhttp.DefaultPooledClient(),
		baseURL:    defaultBaseURL,
		key:        key,
		language:   defaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Autocomplete runs a text prediction search. The returned slice keeps the
// service ranking order. A ZERO_RESULTS status is not an error here: the
// search surface treats "nothing matched" as an empty list.
func (c *Client) Autocomplete(ctx context.Context, req AutocompleteRequest) ([]Prediction, error) {
	params := url.Values{}
	// Caller params first so the reserved keys below always win.
	for k, v := range req.Params {
		params.Set(k, v)
	}
	params.Set("input", req.Input)
	params.Set("key", c.key)
	params.Set("language", c.language)
	if req.SessionToken != "" {
		params.Set("sessiontoken", req.SessionToken)
	}

	var resp autocompleteResponse
	start := time.Now()
	if err := c.getJSON(ctx, "/autocomplete/json", params, &resp); err != nil {
		return nil, err
	}
	log.Debugf("autocomplete query took [ %v ] for input '%s'", time.Since(start), req.Input)

	if resp.Status == "ZERO_RESULTS" {
		return []Prediction{}, nil
	}
	if resp.Status != "OK" {
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}

	predictions := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predictions = append(predictions, p.toPrediction())
	}
	return predictions, nil
}

// Details resolves the full record for one place id. Any non-OK status is an
// error, including ZERO_RESULTS: a detail lookup that matches nothing is a
// failed lookup, not an empty success.
func (c *Client) Details(ctx context.Context, req DetailsRequest) (*PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", req.PlaceID)
	params.Set("key", c.key)
	params.Set("language", c.language)
	if req.SessionToken != "" {
		params.Set("sessiontoken", req.SessionToken)
	}
	if len(req.Fields) > 0 {
		params.Set("fields", strings.Join(req.Fields, ","))
	}

	var resp detailsResponse
	if err := c.getJSON(ctx, "/details/json", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "OK" {
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}
	return &resp.Result, nil
}

// getJSON performs a GET against path and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("places: building request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("places: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("places: unexpected HTTP status %d", httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("places: decoding response: %w", err)
	}
	return nil
}
