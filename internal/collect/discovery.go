package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/websearch"
)

// directoryHosts are aggregator and platform domains that a business name
// search surfaces constantly but that are never the business's own site.
var directoryHosts = []string{
	"yell.com", "freeindex.co.uk", "checkatrade.com", "trustatrader.com",
	"yelp.com", "yelp.co.uk", "thomsonlocal.com", "cylex-uk.co.uk",
	"facebook.com", "instagram.com", "twitter.com", "x.com",
	"linkedin.com", "youtube.com", "tiktok.com",
	"gov.uk", "companieshouse.gov.uk", "endole.co.uk", "companycheck.co.uk",
	"wikipedia.org", "indeed.com", "glassdoor.com",
}

// WebsiteDiscovery finds a business's own website through web search,
// skipping directory and social hits.
type WebsiteDiscovery struct {
	search websearch.Client
}

// NewWebsiteDiscovery creates the collector.
func NewWebsiteDiscovery(search websearch.Client) *WebsiteDiscovery {
	return &WebsiteDiscovery{search: search}
}

// Source implements Collector.
func (d *WebsiteDiscovery) Source() model.Source {
	return model.SourceSearch
}

// Collect searches for the business and returns the first organic hit
// that looks like its own site. The registry-confirmed official name is
// preferred over the directory display name when available.
func (d *WebsiteDiscovery) Collect(ctx context.Context, q Query) (*Result, error) {
	name := q.BusinessName
	if q.OfficialName != "" {
		name = q.OfficialName
	}
	if strings.TrimSpace(name) == "" {
		return &Result{Source: d.Source()}, nil
	}

	query := fmt.Sprintf("%q %s", name, q.Postcode)
	resp, err := d.search.Search(ctx, strings.TrimSpace(query), websearch.WithCount(10))
	if err != nil {
		return nil, eris.Wrap(err, "collect: website discovery")
	}

	for _, r := range resp.Results {
		domain := model.DomainOf(r.URL)
		if domain == "" || isDirectoryHost(domain) {
			continue
		}
		zap.L().Debug("collect: website discovered",
			zap.String("business", name),
			zap.String("website", r.URL),
		)
		return &Result{Source: d.Source(), Website: r.URL}, nil
	}
	return &Result{Source: d.Source()}, nil
}

func isDirectoryHost(domain string) bool {
	for _, host := range directoryHosts {
		if domain == host || strings.HasSuffix(domain, "."+host) {
			return true
		}
	}
	return false
}
