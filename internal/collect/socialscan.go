package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/websearch"
)

// socialSearchHosts are the platforms probed for a business profile, in
// the order results are attributed.
var socialSearchHosts = []struct {
	platform model.SocialPlatform
	site     string
}{
	{model.PlatformFacebook, "facebook.com"},
	{model.PlatformInstagram, "instagram.com"},
	{model.PlatformLinkedIn, "linkedin.com/company"},
}

// SocialScan finds a business's social profiles via site-restricted
// search. Businesses without a website very often still run a Facebook
// page, which is exactly the under-digitized profile worth finding.
type SocialScan struct {
	search websearch.Client
}

// NewSocialScan creates the collector.
func NewSocialScan(search websearch.Client) *SocialScan {
	return &SocialScan{search: search}
}

// Source implements Collector.
func (s *SocialScan) Source() model.Source {
	return model.SourceSocialScan
}

// Collect probes each platform for a profile matching the business name.
// Per-platform failures are tolerated while any platform succeeds.
func (s *SocialScan) Collect(ctx context.Context, q Query) (*Result, error) {
	if strings.TrimSpace(q.BusinessName) == "" {
		return &Result{Source: s.Source()}, nil
	}

	result := &Result{Source: s.Source(), Social: make(map[model.SocialPlatform]string)}
	var (
		firstErr error
		anyOK    bool
	)

	for _, host := range socialSearchHosts {
		query := fmt.Sprintf("site:%s %q %s", host.site, q.BusinessName, q.Postcode)
		resp, err := s.search.Search(ctx, strings.TrimSpace(query), websearch.WithCount(3))
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		anyOK = true

		for _, r := range resp.Results {
			links := extract.SocialLinks(r.URL)
			if link, ok := links[host.platform]; ok {
				result.Social[host.platform] = link
				break
			}
		}
	}

	if !anyOK {
		return nil, eris.Wrap(firstErr, "collect: social scan")
	}
	return result, nil
}
