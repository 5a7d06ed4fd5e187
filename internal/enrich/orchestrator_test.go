package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/collect"
	"github.com/sells-group/leadgen-cli/internal/match"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// stubCollector returns a canned result or error and records its queries.
type stubCollector struct {
	source  model.Source
	results []*collect.Result // consumed in order; last one repeats
	err     error
	panics  bool
	queries []collect.Query
}

func (s *stubCollector) Source() model.Source { return s.source }

func (s *stubCollector) Collect(_ context.Context, q collect.Query) (*collect.Result, error) {
	s.queries = append(s.queries, q)
	if s.panics {
		panic("collector exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) == 0 {
		return &collect.Result{Source: s.source}, nil
	}
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r, nil
}

// stubRegistry implements match.Registry.
type stubRegistry struct {
	records []model.RegistryRecord
	full    *model.RegistryRecord
	err     error
}

func (s *stubRegistry) Search(context.Context, string) ([]model.RegistryRecord, error) {
	return s.records, s.err
}

func (s *stubRegistry) Company(context.Context, string) (*model.RegistryRecord, error) {
	if s.full == nil {
		return nil, eris.New("companieshouse: not found")
	}
	return s.full, nil
}

// stubGuesser implements Guesser.
type stubGuesser struct {
	candidates []model.EmailCandidate
	err        error
	people     []model.Person
}

func (s *stubGuesser) Guess(_ context.Context, person model.Person, _ string, _ []string, _ []model.Person) ([]model.EmailCandidate, error) {
	s.people = append(s.people, person)
	return s.candidates, s.err
}

func activeRegistry() *stubRegistry {
	officers := []model.Person{{
		Name: "Jane Doe", FirstName: "Jane", LastName: "Doe",
		Role: "director", Source: model.SourceRegistry,
	}}
	return &stubRegistry{
		records: []model.RegistryRecord{{
			RegistryID:   "01234567",
			OfficialName: "ACME PLUMBING LIMITED",
			Status:       model.CompanyStatusActive,
			PostalCode:   "LS1 1AA",
		}},
		full: &model.RegistryRecord{
			RegistryID:        "01234567",
			OfficialName:      "ACME PLUMBING LIMITED",
			Status:            model.CompanyStatusActive,
			RegisteredAddress: "1 High Street, Leeds, LS1 1AA",
			PostalCode:        "LS1 1AA",
			Officers:          officers,
		},
	}
}

func TestEnrichHappyPath(t *testing.T) {
	discovery := &stubCollector{
		source:  model.SourceSearch,
		results: []*collect.Result{{Source: model.SourceSearch, Website: "https://acmeplumbing.co.uk"}},
	}
	crawler := &stubCollector{
		source: model.SourceWebsiteCrawl,
		results: []*collect.Result{{
			Source: model.SourceWebsiteCrawl,
			Emails: []model.EmailCandidate{{
				Address: "info@acmeplumbing.co.uk", Role: model.EmailRoleGeneric,
				Source: model.SourceWebsiteCrawl, Confidence: model.ConfidenceHigh,
			}},
		}},
	}
	guesser := &stubGuesser{candidates: []model.EmailCandidate{{
		Address: "jane.doe@acmeplumbing.co.uk", Role: model.EmailRolePersonal,
		Source: model.SourceInference, Confidence: model.ConfidenceMedium,
		VerificationMethod: "template", PersonName: "Jane Doe",
	}}}

	o := New(Deps{
		Matcher:     match.NewMatcher(activeRegistry()),
		Discovery:   discovery,
		Crawler:     crawler,
		Synthesizer: guesser,
	})

	lead := o.Enrich(context.Background(), model.BasicBusiness{
		Name: "Acme Plumbing", Postcode: "LS1 1AA",
	}, FeatureToggles{})

	assert.Equal(t, model.EnrichmentStatusComplete, lead.Enrichment.Status)
	assert.Empty(t, lead.Enrichment.Errors)
	assert.NotEmpty(t, lead.ID)

	require.NotNil(t, lead.RegistryMatch)
	assert.Equal(t, "01234567", lead.RegistryMatch.RegistryID)

	assert.Equal(t, "https://acmeplumbing.co.uk", lead.Website)
	assert.Equal(t, model.SourceSearch, lead.WebsiteSource)

	require.Len(t, lead.People, 1)
	assert.Equal(t, "Jane Doe", lead.People[0].Name)

	addrs := make([]string, 0, len(lead.Emails))
	for _, e := range lead.Emails {
		addrs = append(addrs, e.Address)
	}
	assert.Contains(t, addrs, "info@acmeplumbing.co.uk")
	assert.Contains(t, addrs, "jane.doe@acmeplumbing.co.uk")

	require.Len(t, lead.Addresses, 1)
	assert.Equal(t, model.AddressKindRegistered, lead.Addresses[0].Kind)

	require.NotNil(t, lead.LeadScore)
	require.NotNil(t, lead.Enrichment.EnrichedAt)
	assert.Contains(t, lead.Enrichment.Sources, "companies_house")
	assert.Contains(t, lead.Enrichment.Sources, "web_search")
}

func TestEnrichPartialOnSourceFailure(t *testing.T) {
	discovery := &stubCollector{source: model.SourceSearch, err: eris.New("websearch: status 503")}

	o := New(Deps{
		Matcher:   match.NewMatcher(activeRegistry()),
		Discovery: discovery,
	})

	lead := o.Enrich(context.Background(), model.BasicBusiness{Name: "Acme Plumbing"}, FeatureToggles{})

	assert.Equal(t, model.EnrichmentStatusPartial, lead.Enrichment.Status)
	require.Len(t, lead.Enrichment.Errors, 1)
	assert.Contains(t, lead.Enrichment.Errors[0], "parallel_discovery")
	// The sibling registry result still landed.
	assert.NotNil(t, lead.RegistryMatch)
}

func TestEnrichPartialWhenEverySourceErrors(t *testing.T) {
	o := New(Deps{
		Matcher:   match.NewMatcher(&stubRegistry{err: eris.New("companieshouse: rate limited")}),
		Discovery: &stubCollector{source: model.SourceSearch, err: eris.New("websearch: down")},
	})

	lead := o.Enrich(context.Background(), model.BasicBusiness{Name: "Ghost Business"}, FeatureToggles{})

	// All sources erroring is still a partial run: the bare lead gets a
	// real score, not the failed-run neutral.
	assert.Equal(t, model.EnrichmentStatusPartial, lead.Enrichment.Status)
	assert.Len(t, lead.Enrichment.Errors, 2)
	require.NotNil(t, lead.LeadScore)
	assert.Equal(t, 60, lead.LeadScore.OpportunityScore)
	assert.Equal(t, 0, lead.LeadScore.QualityScore)
	assert.Equal(t, 72, lead.LeadScore.Total)
	assert.Equal(t, model.PriorityWarm, lead.LeadScore.PriorityRank)
}

func TestEnrichSecondaryDiscoveryUsesOfficialName(t *testing.T) {
	discovery := &stubCollector{
		source: model.SourceSearch,
		results: []*collect.Result{
			{Source: model.SourceSearch}, // first pass finds nothing
			{Source: model.SourceSearch, Website: "https://acmeplumbing.co.uk"},
		},
	}

	o := New(Deps{
		Matcher:   match.NewMatcher(activeRegistry()),
		Discovery: discovery,
	})

	lead := o.Enrich(context.Background(), model.BasicBusiness{Name: "Acme Plumbing"}, FeatureToggles{})

	require.Len(t, discovery.queries, 2)
	assert.Empty(t, discovery.queries[0].OfficialName)
	assert.Equal(t, "ACME PLUMBING LIMITED", discovery.queries[1].OfficialName)
	assert.Equal(t, "https://acmeplumbing.co.uk", lead.Website)
}

func TestEnrichInputWebsiteSkipsDiscovery(t *testing.T) {
	discovery := &stubCollector{source: model.SourceSearch}

	o := New(Deps{
		Matcher:   match.NewMatcher(activeRegistry()),
		Discovery: discovery,
	})

	lead := o.Enrich(context.Background(), model.BasicBusiness{
		Name:    "Acme Plumbing",
		Website: "https://acmeplumbing.co.uk",
	}, FeatureToggles{})

	assert.Equal(t, model.SourceInput, lead.WebsiteSource)
	assert.Empty(t, discovery.queries, "site already known, discovery never runs")
}

func TestEnrichTogglesGateOptionalSources(t *testing.T) {
	whois := &stubCollector{source: model.SourceWhois}
	dorking := &stubCollector{source: model.SourceDorking}

	o := New(Deps{
		Discovery: &stubCollector{
			source:  model.SourceSearch,
			results: []*collect.Result{{Source: model.SourceSearch, Website: "https://acmeplumbing.co.uk"}},
		},
		Whois:   whois,
		Dorking: dorking,
	})

	o.Enrich(context.Background(), model.BasicBusiness{Name: "Acme Plumbing"}, FeatureToggles{Whois: true})

	assert.Len(t, whois.queries, 1)
	assert.Empty(t, dorking.queries)
	assert.Equal(t, "acmeplumbing.co.uk", whois.queries[0].Domain)
}

func TestEnrichRecoversFromPanic(t *testing.T) {
	o := New(Deps{
		Discovery: &stubCollector{
			source:  model.SourceSearch,
			results: []*collect.Result{{Source: model.SourceSearch, Website: "https://acmeplumbing.co.uk"}},
		},
		Crawler: &stubCollector{source: model.SourceWebsiteCrawl, panics: true},
	})

	lead := o.Enrich(context.Background(), model.BasicBusiness{Name: "Acme Plumbing"}, FeatureToggles{})

	assert.Equal(t, model.EnrichmentStatusFailed, lead.Enrichment.Status)
	require.NotEmpty(t, lead.Enrichment.Errors)
	assert.Contains(t, lead.Enrichment.Errors[0], "panic")
	require.NotNil(t, lead.LeadScore)
	assert.Equal(t, 50, lead.LeadScore.Total)
}

func TestEnrichInferenceTargetsTopPeople(t *testing.T) {
	guesser := &stubGuesser{}
	people := []model.Person{
		{Name: "Low Priority", FirstName: "Low", LastName: "Priority", Source: model.SourceWhois},
		{Name: "Jane Doe", FirstName: "Jane", LastName: "Doe", Role: "director", Source: model.SourceRegistry},
		{Name: "Team Member", FirstName: "Team", LastName: "Member", Source: model.SourceWebsiteCrawl},
		{Name: "Another Crawl", FirstName: "Another", LastName: "Crawl", Source: model.SourceWebsiteCrawl},
	}

	o := New(Deps{
		Discovery: &stubCollector{
			source: model.SourceSearch,
			results: []*collect.Result{{
				Source:  model.SourceSearch,
				Website: "https://acmeplumbing.co.uk",
				People:  people,
			}},
		},
		Synthesizer: guesser,
	})

	o.Enrich(context.Background(), model.BasicBusiness{Name: "Acme Plumbing"}, FeatureToggles{})

	require.Len(t, guesser.people, maxInferencePeople)
	assert.Equal(t, "Jane Doe", guesser.people[0].Name, "registry officer ranks first")
	names := []string{guesser.people[0].Name, guesser.people[1].Name, guesser.people[2].Name}
	assert.NotContains(t, names, "Low Priority")
}

func TestEnrichDistanceFallback(t *testing.T) {
	o := New(Deps{
		Distance: func(_ context.Context, postcode string) (float64, bool) {
			assert.Equal(t, "LS1 1AA", postcode)
			return 12.5, true
		},
	})

	lead := o.Enrich(context.Background(), model.BasicBusiness{
		Name: "Acme Plumbing", Postcode: "LS1 1AA",
	}, FeatureToggles{})

	assert.Equal(t, 12.5, lead.DistanceKm)
}

func TestEnrichClockIsStable(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	o := New(Deps{}).WithNow(func() time.Time { return fixed })

	lead := o.Enrich(context.Background(), model.BasicBusiness{Name: "Acme"}, FeatureToggles{})

	assert.Equal(t, fixed, lead.CreatedAt)
	require.NotNil(t, lead.Enrichment.EnrichedAt)
	assert.Equal(t, fixed, *lead.Enrichment.EnrichedAt)
}
