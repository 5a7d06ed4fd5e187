// Package collect defines the source-collector contract and the typed
// adapters for each external data source. Collectors never panic past
// their boundary, honor the caller's context deadline, and report partial
// results with an explicit error; the orchestrator decides what a
// failure means.
package collect

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Query is the lookup key a collector works from. Fields a collector does
// not need are simply ignored.
type Query struct {
	BusinessName string
	OfficialName string // registry-confirmed name, when known
	Website      string
	Domain       string
	Postcode     string
}

// Result is the partial contribution of one collector. Empty fields mean
// "nothing found", which is not an error.
type Result struct {
	Source    model.Source
	Website   string
	Emails    []model.EmailCandidate
	Phones    []model.PhoneCandidate
	People    []model.Person
	Social    map[model.SocialPlatform]string
	Addresses []model.AddressRecord
}

// Empty reports whether the result carries no data at all.
func (r *Result) Empty() bool {
	return r == nil || (r.Website == "" && len(r.Emails) == 0 && len(r.Phones) == 0 &&
		len(r.People) == 0 && len(r.Social) == 0 && len(r.Addresses) == 0)
}

// Collector fetches one kind of external fact about a business.
type Collector interface {
	// Source returns the provenance tag for merge priority and score
	// attribution.
	Source() model.Source
	// Collect fetches data for the query. Implementations must return
	// rather than block past the context deadline.
	Collect(ctx context.Context, q Query) (*Result, error)
}
