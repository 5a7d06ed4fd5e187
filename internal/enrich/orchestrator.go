// Package enrich orchestrates a full enrichment run: fan out to the
// discovery sources, crawl, infer contacts, fold everything into one lead
// and score it. A run never fails with an error; whatever happens, the
// caller gets back a lead whose enrichment status says how it went.
package enrich

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/collect"
	"github.com/sells-group/leadgen-cli/internal/contact"
	"github.com/sells-group/leadgen-cli/internal/match"
	"github.com/sells-group/leadgen-cli/internal/merge"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/score"
)

// Stage names an orchestrator stage, for logs and run records.
type Stage string

const (
	StageParallelDiscovery Stage = "parallel_discovery"
	StageWebsiteCrawl      Stage = "website_crawl"
	StageContactInference  Stage = "contact_inference"
	StageOptionalSources   Stage = "optional_sources"
	StageScoring           Stage = "scoring"
)

// maxInferencePeople caps how many people get synthesized email
// candidates per run.
const maxInferencePeople = 3

// FeatureToggles switches the optional sources per run. Discovery, crawl
// and inference always run.
type FeatureToggles struct {
	Whois      bool `json:"whois"`
	WebArchive bool `json:"web_archive"`
	Dorking    bool `json:"dorking"`
	SocialScan bool `json:"social_scan"`
}

// Guesser is the contact-inference surface the orchestrator needs.
type Guesser interface {
	Guess(ctx context.Context, person model.Person, domain string, knownEmails []string, knownPeople []model.Person) ([]model.EmailCandidate, error)
}

// DistanceFunc resolves the distance in km from the campaign base to a
// postcode. ok is false when the postcode cannot be located.
type DistanceFunc func(ctx context.Context, postcode string) (km float64, ok bool)

// Deps carries the orchestrator's collaborators. Nil fields disable the
// corresponding source.
type Deps struct {
	Matcher     *match.Matcher
	Discovery   collect.Collector
	Crawler     collect.Collector
	ProfNet     collect.Collector
	Whois       collect.Collector
	WebArchive  collect.Collector
	Dorking     collect.Collector
	SocialScan  collect.Collector
	Synthesizer Guesser
	Scorer      *score.Scorer
	Distance    DistanceFunc
}

// Orchestrator runs the enrichment state machine over one business.
type Orchestrator struct {
	deps Deps
	now  func() time.Time
}

// New creates an Orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.Scorer == nil {
		deps.Scorer = score.NewScorer(score.DefaultWeights())
	}
	return &Orchestrator{deps: deps, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (o *Orchestrator) WithNow(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Enrich runs the full state machine for one business. It never returns
// an error and never panics past its boundary: a catastrophic failure
// yields a failed lead with a neutral score.
func (o *Orchestrator) Enrich(ctx context.Context, biz model.BasicBusiness, toggles FeatureToggles) (lead *model.Lead) {
	lead = o.newLead(biz)
	log := zap.L().With(zap.String("lead_id", lead.ID), zap.String("business", lead.BusinessName))

	defer func() {
		if r := recover(); r != nil {
			log.Error("enrich: run panicked", zap.Any("panic", r))
			lead.Enrichment.Status = model.EnrichmentStatusFailed
			lead.Enrichment.Errors = append(lead.Enrichment.Errors, fmt.Sprintf("panic: %v", r))
			o.finish(lead)
		}
	}()

	// fail is called from the discovery goroutines concurrently.
	var (
		failMu   sync.Mutex
		failures []string
	)
	fail := func(stage Stage, err error) {
		failMu.Lock()
		failures = append(failures, fmt.Sprintf("%s: %v", stage, err))
		failMu.Unlock()
		log.Warn("enrich: source failed", zap.String("stage", string(stage)), zap.Error(err))
	}

	log.Info("enrich: run started")
	lead.Enrichment.Status = model.EnrichmentStatusRunning

	o.runDiscovery(ctx, lead, biz, fail)
	o.runCrawl(ctx, lead, fail)
	o.runInference(ctx, lead, fail)
	o.runOptional(ctx, lead, biz, toggles, fail)

	if lead.DistanceKm == 0 && o.deps.Distance != nil && biz.Postcode != "" {
		if km, ok := o.deps.Distance(ctx, biz.Postcode); ok {
			lead.DistanceKm = km
		}
	}

	lead.Enrichment.Errors = failures
	lead.Enrichment.Status = runStatus(failures)
	o.finish(lead)

	log.Info("enrich: run finished",
		zap.String("status", string(lead.Enrichment.Status)),
		zap.Int("failures", len(failures)),
		zap.Int("total_score", lead.LeadScore.Total),
		zap.String("rank", string(lead.LeadScore.PriorityRank)),
	)
	return lead
}

// newLead seeds the lead from the caller-provided record. Input fields go
// through the same merge rules as any collector result.
func (o *Orchestrator) newLead(biz model.BasicBusiness) *model.Lead {
	lead := &model.Lead{
		ID:           uuid.NewString(),
		BusinessName: biz.Name,
		Industry:     biz.Industry,
		Rating:       biz.Rating,
		ReviewCount:  biz.ReviewCount,
		DistanceKm:   biz.DistanceKm,
		Enrichment:   model.EnrichmentMeta{Status: model.EnrichmentStatusPending},
		CreatedAt:    o.now(),
	}

	input := &collect.Result{Source: model.SourceInput, Website: biz.Website}
	if biz.Email != "" {
		input.Emails = append(input.Emails, model.EmailCandidate{
			Address:    model.NormalizeEmail(biz.Email),
			Role:       model.ClassifyEmailRole(biz.Email),
			Source:     model.SourceInput,
			Confidence: model.ConfidenceHigh,
		})
	}
	if biz.Phone != "" {
		input.Phones = append(input.Phones, model.PhoneCandidate{
			Number: model.NormalizePhone(biz.Phone),
			Type:   model.ClassifyPhone(biz.Phone),
			Source: model.SourceInput,
		})
	}
	if biz.Address != "" {
		input.Addresses = append(input.Addresses, model.AddressRecord{
			Kind:     model.AddressKindTrading,
			Address:  biz.Address,
			Postcode: biz.Postcode,
			Source:   model.SourceInput,
		})
	}
	merge.Apply(lead, input)
	return lead
}

// runDiscovery fans out registry matching, website discovery and the
// professional-network lookup, then merges in a fixed order once all have
// returned. Discovery is skipped entirely when the caller already gave a
// website. One source failing never cancels its siblings.
func (o *Orchestrator) runDiscovery(ctx context.Context, lead *model.Lead, biz model.BasicBusiness, fail func(Stage, error)) {
	var (
		registry        *model.RegistryRecord
		discovered      *collect.Result
		people          *collect.Result
		discoveryFailed bool
	)

	var g errgroup.Group
	if o.deps.Matcher != nil {
		g.Go(func() error {
			rec, err := o.deps.Matcher.Match(ctx, biz.Name, biz.Postcode)
			if err != nil {
				fail(StageParallelDiscovery, err)
				return nil
			}
			registry = rec
			return nil
		})
	}
	if o.deps.Discovery != nil && biz.Website == "" {
		g.Go(func() error {
			r, err := o.deps.Discovery.Collect(ctx, collect.Query{BusinessName: biz.Name, Postcode: biz.Postcode})
			if err != nil {
				discoveryFailed = true
				fail(StageParallelDiscovery, err)
				return nil
			}
			discovered = r
			return nil
		})
	}
	if o.deps.ProfNet != nil {
		g.Go(func() error {
			r, err := o.deps.ProfNet.Collect(ctx, collect.Query{BusinessName: biz.Name})
			if err != nil {
				fail(StageParallelDiscovery, err)
				return nil
			}
			people = r
			return nil
		})
	}
	_ = g.Wait()

	// Registry first: its website priority and officers anchor everything
	// downstream.
	if registry != nil {
		lead.RegistryMatch = registry
		result := &collect.Result{Source: model.SourceRegistry, People: registry.Officers}
		if registry.RegisteredAddress != "" {
			result.Addresses = append(result.Addresses, model.AddressRecord{
				Kind:     model.AddressKindRegistered,
				Address:  registry.RegisteredAddress,
				Postcode: registry.PostalCode,
				Source:   model.SourceRegistry,
			})
		}
		merge.Apply(lead, result)
		if lead.Industry == "" && len(registry.IndustryCodes) > 0 {
			lead.Industry = registry.IndustryCodes[0].Description
		}
	}
	if discovered != nil {
		merge.Apply(lead, discovered)
	}
	if people != nil {
		merge.Apply(lead, people)
	}

	// Second discovery pass under the official name: directory display
	// names often differ enough from the registered name that the first
	// search misses the site. Pointless to retry a source that just failed.
	if lead.Website == "" && registry != nil && o.deps.Discovery != nil && !discoveryFailed {
		r, err := o.deps.Discovery.Collect(ctx, collect.Query{
			BusinessName: biz.Name,
			OfficialName: registry.OfficialName,
			Postcode:     biz.Postcode,
		})
		if err != nil {
			fail(StageParallelDiscovery, err)
		} else if r != nil {
			merge.Apply(lead, r)
		}
	}
}

func (o *Orchestrator) runCrawl(ctx context.Context, lead *model.Lead, fail func(Stage, error)) {
	if o.deps.Crawler == nil || lead.Website == "" {
		return
	}
	r, err := o.deps.Crawler.Collect(ctx, collect.Query{Website: lead.Website, Domain: lead.Domain()})
	if err != nil {
		fail(StageWebsiteCrawl, err)
		return
	}
	merge.Apply(lead, r)
}

// runInference synthesizes email candidates for the most promising
// people. Known observed addresses feed convention detection.
func (o *Orchestrator) runInference(ctx context.Context, lead *model.Lead, fail func(Stage, error)) {
	if o.deps.Synthesizer == nil || lead.Domain() == "" || len(lead.People) == 0 {
		return
	}

	known := make([]string, 0, len(lead.Emails))
	for _, e := range lead.Emails {
		if e.VerificationMethod == "" { // observed, not synthesized
			known = append(known, e.Address)
		}
	}

	targets := topPeople(lead.People, maxInferencePeople)
	result := &collect.Result{Source: model.SourceInference}
	for _, person := range targets {
		candidates, err := o.deps.Synthesizer.Guess(ctx, person, lead.Domain(), known, lead.People)
		if err != nil {
			fail(StageContactInference, err)
			continue
		}
		result.Emails = append(result.Emails, candidates...)
	}
	merge.Apply(lead, result)
}

func (o *Orchestrator) runOptional(ctx context.Context, lead *model.Lead, biz model.BasicBusiness, toggles FeatureToggles, fail func(Stage, error)) {
	query := collect.Query{
		BusinessName: biz.Name,
		Postcode:     biz.Postcode,
		Website:      lead.Website,
		Domain:       lead.Domain(),
	}

	type optional struct {
		enabled   bool
		collector collect.Collector
	}
	for _, opt := range []optional{
		{toggles.Whois, o.deps.Whois},
		{toggles.WebArchive, o.deps.WebArchive},
		{toggles.Dorking, o.deps.Dorking},
		{toggles.SocialScan, o.deps.SocialScan},
	} {
		if !opt.enabled || opt.collector == nil {
			continue
		}
		r, err := opt.collector.Collect(ctx, query)
		if err != nil {
			fail(StageOptionalSources, err)
			continue
		}
		merge.Apply(lead, r)
	}
}

// finish scores the lead and stamps the completion time. Scoring runs for
// every terminal status; a failed run still gets its neutral score.
func (o *Orchestrator) finish(lead *model.Lead) {
	lead.LeadScore = o.deps.Scorer.Score(lead)
	now := o.now()
	lead.Enrichment.EnrichedAt = &now
}

// runStatus derives the terminal status: complete when every attempted
// source succeeded, partial when any failed. Failed is reserved for the
// panic path; even a run whose every source errored still gets a real
// score over whatever the caller supplied.
func runStatus(failures []string) model.EnrichmentStatus {
	if len(failures) == 0 {
		return model.EnrichmentStatusComplete
	}
	return model.EnrichmentStatusPartial
}

// topPeople ranks people by source priority, decision makers first within
// a tier, and returns the top n.
func topPeople(people []model.Person, n int) []model.Person {
	ranked := make([]model.Person, len(people))
	copy(ranked, people)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := model.PersonPriority(ranked[i].Source), model.PersonPriority(ranked[j].Source)
		if pi != pj {
			return pi < pj
		}
		return ranked[i].IsDecisionMaker() && !ranked[j].IsDecisionMaker()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Ensure the concrete synthesizer satisfies the local interface.
var _ Guesser = (*contact.Synthesizer)(nil)
