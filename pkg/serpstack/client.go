// Package serpstack provides a client for the SerpStack Google SERP API.
package serpstack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.serpstack.com"

// Client performs SERP lookups against the SerpStack API.
type Client interface {
	// Search runs a geo-targeted Google search and returns the parsed SERP.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest holds the query plus geo/locale targeting parameters.
type SearchRequest struct {
	Query        string
	Location     string // e.g. "Benz Circle, Vijayawada, India"
	GoogleDomain string // e.g. "google.co.in"
	CountryCode  string // "gl" parameter, e.g. "in"
	Language     string // "hl" parameter, e.g. "en"
	Num          int    // number of results to request
}

// SearchResponse is the parsed SerpStack response envelope.
type SearchResponse struct {
	Request        RequestInfo     `json:"request"`
	Error          *APIError       `json:"error,omitempty"`
	LocalResults   []LocalResult   `json:"local_results"`
	OrganicResults []OrganicResult `json:"organic_results"`
	RelatedPlaces  []RelatedPlace  `json:"related_places"`
}

// RequestInfo echoes SerpStack's per-request status block.
type RequestInfo struct {
	Success bool `json:"success"`
}

// APIError is SerpStack's in-band error payload.
type APIError struct {
	Code int    `json:"code"`
	Type string `json:"type"`
	Info string `json:"info"`
}

// LocalResult is one Google Maps local pack entry.
type LocalResult struct {
	Title      string   `json:"title"`
	Address    string   `json:"address"`
	Rating     *float64 `json:"rating,omitempty"`
	Reviews    *int     `json:"reviews,omitempty"`
	URL        string   `json:"url"`
	Extensions []string `json:"extensions"`
}

// OrganicResult is one organic search hit.
type OrganicResult struct {
	Title        string       `json:"title"`
	URL          string       `json:"url"`
	DisplayedURL string       `json:"displayed_url"`
	Snippet      string       `json:"snippet"`
	RichSnippet  *RichSnippet `json:"rich_snippet,omitempty"`
}

// RichSnippet carries detected extensions (ratings, review counts) shown
// above or below an organic result.
type RichSnippet struct {
	Top    *RichSnippetBlock `json:"top,omitempty"`
	Bottom *RichSnippetBlock `json:"bottom,omitempty"`
}

// RichSnippetBlock is one position of a rich snippet.
type RichSnippetBlock struct {
	DetectedExtensions DetectedExtensions `json:"detected_extensions"`
}

// DetectedExtensions holds structured values Google detected in a snippet.
type DetectedExtensions struct {
	Rating  *float64 `json:"rating,omitempty"`
	Reviews *int     `json:"reviews,omitempty"`
	Votes   *int     `json:"votes,omitempty"`
}

// RelatedPlace is a "people also search for" style block. The Places field
// is free text that often embeds the business's phone number.
type RelatedPlace struct {
	Title  string `json:"title"`
	Places string `json:"places"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a SerpStack API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes the request with exponential backoff on transient
// failures (429, 500, 502, 503) and returns the body and status code.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryReq := req.Clone(ctx)

		resp, err := c.http.Do(retryReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "serpstack: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("serpstack: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) Search(ctx context.Context, sr SearchRequest) (*SearchResponse, error) {
	params := url.Values{
		"access_key": {c.apiKey},
		"query":      {sr.Query},
	}
	if sr.Location != "" {
		params.Set("location", sr.Location)
	}
	if sr.GoogleDomain != "" {
		params.Set("google_domain", sr.GoogleDomain)
	}
	if sr.CountryCode != "" {
		params.Set("gl", sr.CountryCode)
	}
	if sr.Language != "" {
		params.Set("hl", sr.Language)
	}
	if sr.Num > 0 {
		params.Set("num", strconv.Itoa(sr.Num))
	}

	reqURL := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "serpstack: create request")
	}

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "serpstack: request failed")
	}

	if statusCode != http.StatusOK {
		return nil, eris.Errorf("serpstack: unexpected status %d: %s", statusCode, string(body))
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "serpstack: unmarshal response")
	}

	// SerpStack signals failures in-band with a 200 status.
	if !result.Request.Success {
		info := "unknown error"
		if result.Error != nil && result.Error.Info != "" {
			info = result.Error.Info
		}
		return nil, eris.Errorf("serpstack: api error: %s", info)
	}

	return &result, nil
}
