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

// Dorking scrapes email addresses out of search result snippets using
// targeted queries. It finds addresses published on third-party pages the
// crawler never visits, at the cost of occasional mis-attribution, so
// only addresses at the business's own domain are kept when one is known.
type Dorking struct {
	search websearch.Client
}

// NewDorking creates the collector.
func NewDorking(search websearch.Client) *Dorking {
	return &Dorking{search: search}
}

// Source implements Collector.
func (d *Dorking) Source() model.Source {
	return model.SourceDorking
}

// Collect runs the dork queries and extracts addresses from the result
// snippets. Query failures are tolerated while any query succeeds.
func (d *Dorking) Collect(ctx context.Context, q Query) (*Result, error) {
	queries := d.queries(q)
	if len(queries) == 0 {
		return &Result{Source: d.Source()}, nil
	}

	result := &Result{Source: d.Source()}
	seen := make(map[string]bool)
	var (
		firstErr error
		anyOK    bool
	)

	for _, query := range queries {
		resp, err := d.search.Search(ctx, query, websearch.WithCount(10))
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
			for _, addr := range extract.Emails(r.Title + " " + r.Description) {
				if seen[addr] || !d.keep(addr, q.Domain) {
					continue
				}
				seen[addr] = true
				result.Emails = append(result.Emails, model.EmailCandidate{
					Address:    addr,
					Role:       model.ClassifyEmailRole(addr),
					Source:     d.Source(),
					Confidence: model.ConfidenceLow,
				})
			}
		}
	}

	if !anyOK {
		return nil, eris.Wrap(firstErr, "collect: dorking")
	}
	return result, nil
}

func (d *Dorking) queries(q Query) []string {
	var out []string
	if q.Domain != "" {
		out = append(out, fmt.Sprintf("%q", "@"+q.Domain))
	}
	if strings.TrimSpace(q.BusinessName) != "" {
		out = append(out, fmt.Sprintf("%q email contact", q.BusinessName))
	}
	return out
}

// keep drops foreign-domain addresses when the business domain is known;
// with no known domain every address is a candidate.
func (d *Dorking) keep(addr, domain string) bool {
	if domain == "" {
		return true
	}
	return strings.HasSuffix(addr, "@"+domain)
}
