package collect

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// contactPaths are the site paths crawled after the homepage. UK small
// business sites almost always keep contact details on one of these.
var contactPaths = []string{
	"/contact", "/contact-us", "/contactus", "/about", "/about-us", "/get-in-touch",
}

// Crawler fetches a business website and pulls contact details out of the
// raw page text.
type Crawler struct {
	fetcher  Fetcher
	maxPages int
}

// NewCrawler creates a crawler over the given fetcher.
func NewCrawler(fetcher Fetcher) *Crawler {
	return &Crawler{fetcher: fetcher, maxPages: 1 + len(contactPaths)}
}

// Source implements Collector.
func (c *Crawler) Source() model.Source {
	return model.SourceWebsiteCrawl
}

// Collect fetches the homepage and the usual contact pages, extracting
// emails, phones, social links and a trading address. Individual page
// failures are skipped; the collector errors only when no page at all
// could be fetched.
func (c *Crawler) Collect(ctx context.Context, q Query) (*Result, error) {
	if q.Website == "" {
		return &Result{Source: c.Source()}, nil
	}
	base := strings.TrimRight(q.Website, "/")
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	result := &Result{Source: c.Source(), Social: make(map[model.SocialPlatform]string)}
	var (
		combined strings.Builder
		fetched  int
		lastErr  error
	)

	urls := append([]string{base}, prefixAll(base, contactPaths)...)
	for _, pageURL := range urls {
		if fetched >= c.maxPages {
			break
		}
		body, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		fetched++
		combined.WriteString(body)
		combined.WriteString("\n")
	}

	if fetched == 0 {
		return nil, lastErr
	}

	text := combined.String()
	for _, addr := range extract.Emails(text) {
		result.Emails = append(result.Emails, model.EmailCandidate{
			Address:    addr,
			Role:       model.ClassifyEmailRole(addr),
			Source:     c.Source(),
			Confidence: model.ConfidenceHigh,
		})
	}
	for _, number := range extract.Phones(text) {
		result.Phones = append(result.Phones, model.PhoneCandidate{
			Number: model.NormalizePhone(number),
			Type:   model.ClassifyPhone(number),
			Source: c.Source(),
		})
	}
	for platform, link := range extract.SocialLinks(text) {
		result.Social[platform] = link
	}
	if postcode := extract.Postcode(text); postcode != "" {
		result.Addresses = append(result.Addresses, model.AddressRecord{
			Kind:     model.AddressKindTrading,
			Address:  postcode,
			Postcode: postcode,
			Source:   c.Source(),
		})
	}

	zap.L().Debug("collect: website crawled",
		zap.String("website", base),
		zap.Int("pages", fetched),
		zap.Int("emails", len(result.Emails)),
		zap.Int("phones", len(result.Phones)),
	)
	return result, nil
}

func prefixAll(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, base+p)
	}
	return out
}
