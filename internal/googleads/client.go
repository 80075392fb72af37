// Package googleads is a minimal Google Ads REST client for GAQL report queries.
package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/adsproxy/adsproxy/internal/model"
)

const (
	// DefaultBaseURL is the public Google Ads API host.
	DefaultBaseURL = "https://googleads.googleapis.com"
	// DefaultAPIVersion is the REST API version used for queries.
	DefaultAPIVersion = "v17"
	// AdWordsScope is the OAuth scope required by the Google Ads API.
	AdWordsScope = "https://www.googleapis.com/auth/adwords"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 1 << 20
)

// Header names sent to the Google Ads API.
const (
	HeaderDeveloperToken  = "developer-token"
	HeaderLoginCustomerID = "login-customer-id"
)

// Options configures a Client.
type Options struct {
	BaseURL         string
	APIVersion      string
	LoginCustomerID string
	TokenURL        string
	HTTPClient      *http.Client
}

// Client runs searchStream queries with per-request credentials.
// It holds no credentials itself and is safe for concurrent use.
type Client struct {
	baseURL         string
	apiVersion      string
	loginCustomerID string
	endpoint        oauth2.Endpoint
	httpClient      *http.Client
}

// NewClient creates a new Client.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:         strings.TrimSuffix(opts.BaseURL, "/"),
		apiVersion:      opts.APIVersion,
		loginCustomerID: NormalizeCustomerID(opts.LoginCustomerID),
		endpoint:        google.Endpoint,
		httpClient:      opts.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if opts.TokenURL != "" {
		c.endpoint.TokenURL = opts.TokenURL
	}
	if c.httpClient == nil {
		c.httpClient = NewHTTPClient()
	}
	return c
}

// searchBatch is one element of a searchStream response array.
type searchBatch struct {
	Results   []model.RawRow `json:"results"`
	RequestID string         `json:"requestId"`
	Error     *errorBody     `json:"error"`
}

// Search exchanges the refresh token for an access token, runs query with
// searchStream and returns every row of every batch in order.
func (c *Client) Search(ctx context.Context, creds model.CredentialSet, query string) ([]model.RawRow, error) {
	token, err := c.token(ctx, creds)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL(creds.CustomerID), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(HeaderDeveloperToken, creds.DeveloperToken)
	if c.loginCustomerID != "" {
		req.Header.Set(HeaderLoginCustomerID, c.loginCustomerID)
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var batches []searchBatch
	if err := json.NewDecoder(resp.Body).Decode(&batches); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}

	var rows []model.RawRow
	for _, b := range batches {
		if b.Error != nil {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			apiErr.applyBody(b.Error)
			return nil, apiErr
		}
		rows = append(rows, b.Results...)
	}

	return rows, nil
}

// token runs the OAuth2 refresh flow for creds.
func (c *Client) token(ctx context.Context, creds model.CredentialSet) (*oauth2.Token, error) {
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     c.endpoint,
		Scopes:       []string{AdWordsScope},
	}

	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := conf.TokenSource(tokenCtx, &oauth2.Token{RefreshToken: creds.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	return token, nil
}

func (c *Client) searchURL(customerID string) string {
	return fmt.Sprintf("%s/%s/customers/%s/googleAds:searchStream",
		c.baseURL,
		c.apiVersion,
		url.PathEscape(NormalizeCustomerID(customerID)),
	)
}

// NormalizeCustomerID strips the dashes of the 123-456-7890 display format.
func NormalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}
