package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/websearch"
)

// ProfessionalNetwork finds people associated with a business through
// public professional-network profiles surfaced by web search. Result
// titles follow the "Name - Role - Company" convention.
type ProfessionalNetwork struct {
	search     websearch.Client
	maxPeople  int
	siteFilter string
}

// NewProfessionalNetwork creates the collector.
func NewProfessionalNetwork(search websearch.Client) *ProfessionalNetwork {
	return &ProfessionalNetwork{
		search:     search,
		maxPeople:  5,
		siteFilter: "linkedin.com/in",
	}
}

// Source implements Collector.
func (p *ProfessionalNetwork) Source() model.Source {
	return model.SourceProfessionalNet
}

// Collect searches for profiles mentioning the business and parses people
// out of the result titles.
func (p *ProfessionalNetwork) Collect(ctx context.Context, q Query) (*Result, error) {
	if strings.TrimSpace(q.BusinessName) == "" {
		return &Result{Source: p.Source()}, nil
	}

	query := fmt.Sprintf("site:%s %q", p.siteFilter, q.BusinessName)
	resp, err := p.search.Search(ctx, query, websearch.WithCount(p.maxPeople*2))
	if err != nil {
		return nil, eris.Wrap(err, "collect: professional network search")
	}

	result := &Result{Source: p.Source()}
	for _, r := range resp.Results {
		person, ok := parseProfileTitle(r.Title, r.URL)
		if !ok {
			continue
		}
		result.People = append(result.People, person)
		if len(result.People) >= p.maxPeople {
			break
		}
	}
	return result, nil
}

// parseProfileTitle splits "Jane Doe - Director - Acme Plumbing | LinkedIn"
// into a person. Titles without at least a name part are dropped.
func parseProfileTitle(title, profileURL string) (model.Person, bool) {
	title = strings.TrimSpace(title)
	if i := strings.LastIndex(title, "|"); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		return model.Person{}, false
	}

	parts := strings.Split(title, " - ")
	name := strings.TrimSpace(parts[0])
	if name == "" || len(strings.Fields(name)) > 4 {
		return model.Person{}, false
	}

	first, last := model.SplitName(name)
	person := model.Person{
		Name:       name,
		FirstName:  first,
		LastName:   last,
		Source:     model.SourceProfessionalNet,
		ProfileURL: profileURL,
	}
	if len(parts) > 1 {
		person.Role = strings.TrimSpace(parts[1])
	}
	return person, true
}
