package wcif

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrCompetitionNotFound is returned when the WCA API has no public WCIF for the ID.
var ErrCompetitionNotFound = errors.New("competition not found")

// Client retrieves public WCIF documents from the WCA API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(agent)
	}
}

// NewClient creates a WCA API client rooted at baseURL
// (e.g. https://www.worldcubeassociation.org/api/v0).
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("wcif base url required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FetchPublic downloads the public WCIF for the given competition ID.
func (c *Client) FetchPublic(ctx context.Context, competitionID string) (*Competition, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, errors.New("competition id must not be empty")
	}
	endpoint := fmt.Sprintf("%s/competitions/%s/wcif/public", c.baseURL, url.PathEscape(competitionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrCompetitionNotFound, competitionID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("wcif fetch returned %d (latency=%v)", resp.StatusCode, latency)
	}

	comp, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	if comp.ID == "" {
		comp.ID = competitionID
	}
	return comp, nil
}
