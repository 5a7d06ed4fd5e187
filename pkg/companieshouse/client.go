// Package companieshouse provides a client for the Companies House public
// data API.
package companieshouse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Sentinel errors callers branch on. Auth failures abort a run, rate
// limits are retryable after backoff.
var (
	ErrAuth        = eris.New("companieshouse: authentication failed")
	ErrRateLimited = eris.New("companieshouse: rate limited")
	ErrNotFound    = eris.New("companieshouse: not found")
)

// Client defines the Companies House operations used for registry matching.
type Client interface {
	// SearchCompanies runs a company name search.
	SearchCompanies(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error)
	// CompanyProfile fetches the full profile for a company number.
	CompanyProfile(ctx context.Context, companyNumber string) (*CompanyProfile, error)
	// Officers lists the officers of a company.
	Officers(ctx context.Context, companyNumber string) (*OfficerList, error)
}

// SearchResponse is the parsed company search response.
type SearchResponse struct {
	TotalResults int            `json:"total_results"`
	Items        []SearchResult `json:"items"`
}

// SearchResult is one company hit from the search endpoint.
type SearchResult struct {
	CompanyNumber   string          `json:"company_number"`
	Title           string          `json:"title"`
	CompanyStatus   string          `json:"company_status"`
	CompanyType     string          `json:"company_type"`
	DateOfCreation  string          `json:"date_of_creation"`
	DateOfCessation string          `json:"date_of_cessation"`
	Address         *RegisteredAddr `json:"address"`
}

// CompanyProfile is the parsed company profile response.
type CompanyProfile struct {
	CompanyNumber     string          `json:"company_number"`
	CompanyName       string          `json:"company_name"`
	CompanyStatus     string          `json:"company_status"`
	Type              string          `json:"type"`
	DateOfCreation    string          `json:"date_of_creation"`
	DateOfCessation   string          `json:"date_of_cessation"`
	SICCodes          []string        `json:"sic_codes"`
	RegisteredAddress *RegisteredAddr `json:"registered_office_address"`
}

// RegisteredAddr is the registered-office address block shared by search
// and profile responses.
type RegisteredAddr struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	Locality     string `json:"locality"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
}

// OfficerList is the parsed officers response.
type OfficerList struct {
	ActiveCount int       `json:"active_count"`
	Items       []Officer `json:"items"`
}

// Officer is one company officer. Names arrive as "SURNAME, Forename".
type Officer struct {
	Name        string `json:"name"`
	OfficerRole string `json:"officer_role"`
	ResignedOn  string `json:"resigned_on"`
}

// SearchOption configures a search request.
type SearchOption func(*searchOpts)

type searchOpts struct {
	itemsPerPage int
}

// WithItemsPerPage overrides the search page size.
func WithItemsPerPage(n int) SearchOption {
	return func(o *searchOpts) {
		o.itemsPerPage = n
	}
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the request rate limiter.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = limiter
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Companies House client. The default limiter stays
// under the published quota of 600 requests per 5 minutes.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.company-information.service.gov.uk",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SearchCompanies(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error) {
	so := &searchOpts{itemsPerPage: 20}
	for _, opt := range opts {
		opt(so)
	}

	reqURL := fmt.Sprintf("%s/search/companies?q=%s&items_per_page=%d",
		c.baseURL, url.QueryEscape(query), so.itemsPerPage)

	var result SearchResponse
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, eris.Wrap(err, "companieshouse: search companies")
	}
	return &result, nil
}

func (c *httpClient) CompanyProfile(ctx context.Context, companyNumber string) (*CompanyProfile, error) {
	reqURL := fmt.Sprintf("%s/company/%s", c.baseURL, url.PathEscape(companyNumber))

	var result CompanyProfile
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, eris.Wrapf(err, "companieshouse: company profile %s", companyNumber)
	}
	return &result, nil
}

func (c *httpClient) Officers(ctx context.Context, companyNumber string) (*OfficerList, error) {
	reqURL := fmt.Sprintf("%s/company/%s/officers", c.baseURL, url.PathEscape(companyNumber))

	var result OfficerList
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, eris.Wrapf(err, "companieshouse: officers %s", companyNumber)
	}
	return &result, nil
}

// getJSON waits for the rate limiter, performs an authenticated GET and
// decodes the JSON body. API-key auth is HTTP basic with an empty password.
func (c *httpClient) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
