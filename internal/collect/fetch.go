package collect

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Fetcher retrieves a page body as text. Collectors take the interface so
// tests can stub network access.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// maxFetchBytes caps page reads; contact pages are small and anything
// larger is not worth scanning.
const maxFetchBytes = 2 << 20

// HTTPFetcher fetches pages with a plain browser-like GET.
type HTTPFetcher struct {
	http      *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher with the given timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

// Fetch returns the page body. Non-2xx statuses are errors; callers treat
// a failed page as a skipped page.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", eris.Wrapf(err, "collect: create request %s", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "collect: fetch %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", eris.Errorf("collect: fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return "", eris.Wrapf(err, "collect: read %s", url)
	}
	return string(body), nil
}
