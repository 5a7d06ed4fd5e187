package collect

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// defaultRDAPBase is a public RDAP aggregator that redirects to the
// authoritative registry for any TLD.
const defaultRDAPBase = "https://rdap.org/domain/"

// Whois pulls registrant contact emails from a domain's RDAP record.
// Most registrations are privacy-proxied, so hits are rare but cheap.
type Whois struct {
	fetcher Fetcher
	base    string
}

// NewWhois creates the collector. baseURL overrides the RDAP endpoint for
// testing; empty means the public aggregator.
func NewWhois(fetcher Fetcher, baseURL string) *Whois {
	if baseURL == "" {
		baseURL = defaultRDAPBase
	}
	return &Whois{fetcher: fetcher, base: baseURL}
}

// Source implements Collector.
func (w *Whois) Source() model.Source {
	return model.SourceWhois
}

// Collect fetches the RDAP record and scans it for contact emails.
// Privacy-proxy and registrar abuse addresses are filtered out.
func (w *Whois) Collect(ctx context.Context, q Query) (*Result, error) {
	if q.Domain == "" {
		return &Result{Source: w.Source()}, nil
	}

	body, err := w.fetcher.Fetch(ctx, w.base+q.Domain)
	if err != nil {
		return nil, eris.Wrapf(err, "collect: rdap %s", q.Domain)
	}

	result := &Result{Source: w.Source()}
	for _, addr := range extract.Emails(body) {
		if isProxyEmail(addr) {
			continue
		}
		result.Emails = append(result.Emails, model.EmailCandidate{
			Address:    addr,
			Role:       model.ClassifyEmailRole(addr),
			Source:     w.Source(),
			Confidence: model.ConfidenceMedium,
		})
	}
	return result, nil
}

var proxyEmailMarkers = []string{
	"abuse@", "privacy", "proxy", "redacted", "whoisguard",
	"domainsbyproxy", "identity-protect", "registrar",
}

func isProxyEmail(addr string) bool {
	lower := strings.ToLower(addr)
	for _, m := range proxyEmailMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
