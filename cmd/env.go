package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadgen-cli/internal/collect"
	"github.com/sells-group/leadgen-cli/internal/contact"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/geo"
	"github.com/sells-group/leadgen-cli/internal/match"
	"github.com/sells-group/leadgen-cli/internal/score"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/companieshouse"
	"github.com/sells-group/leadgen-cli/pkg/websearch"
)

// enrichEnv bundles the orchestrator, its store, and the configured
// source toggles for the commands that run enrichment.
type enrichEnv struct {
	Store   store.Store
	Orch    *enrich.Orchestrator
	Toggles enrich.FeatureToggles
}

func (e *enrichEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = "leads.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnv wires the full enrichment stack from config.
func initEnv(ctx context.Context) (*enrichEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	chClient := companieshouse.NewClient(cfg.CompaniesHouse.Key,
		companieshouse.WithBaseURL(cfg.CompaniesHouse.BaseURL),
		companieshouse.WithRateLimit(rate.NewLimiter(rate.Limit(cfg.CompaniesHouse.RateLimit), 5)),
	)
	searchClient := websearch.NewClient(cfg.Search.Key,
		websearch.WithBaseURL(cfg.Search.BaseURL),
	)
	fetcher := collect.NewHTTPFetcher(time.Duration(cfg.Crawl.TimeoutSecs) * time.Second)

	weights := score.DefaultWeights()
	if cfg.Score.WeightsFile != "" {
		weights, err = score.LoadWeights(cfg.Score.WeightsFile)
		if err != nil {
			st.Close()
			return nil, eris.Wrap(err, "load score weights")
		}
	}

	var distance enrich.DistanceFunc
	if cfg.Geo.BasePostcode != "" {
		resolver := geo.NewResolver(cfg.Geo.BaseURL, geo.NewCache(cfg.Geo.CacheSize))
		base := cfg.Geo.BasePostcode
		distance = func(ctx context.Context, postcode string) (float64, bool) {
			km, ok, err := resolver.Distance(ctx, base, postcode)
			if err != nil {
				zap.L().Warn("postcode distance lookup failed",
					zap.String("postcode", postcode), zap.Error(err))
				return 0, false
			}
			return km, ok
		}
	}

	deps := enrich.Deps{
		Matcher:     match.NewMatcher(collect.NewRegistryAdapter(chClient)),
		Discovery:   collect.NewWebsiteDiscovery(searchClient),
		Crawler:     collect.NewCrawler(fetcher),
		ProfNet:     collect.NewProfessionalNetwork(searchClient),
		Whois:       collect.NewWhois(fetcher, ""),
		WebArchive:  collect.NewWebArchive(fetcher, "", ""),
		Dorking:     collect.NewDorking(searchClient),
		SocialScan:  collect.NewSocialScan(searchClient),
		Synthesizer: contact.NewSynthesizer(contact.NewDNSResolver(5 * time.Second)),
		Scorer:      score.NewScorer(weights),
		Distance:    distance,
	}

	return &enrichEnv{
		Store: st,
		Orch:  enrich.New(deps),
		Toggles: enrich.FeatureToggles{
			Whois:      cfg.Sources.Whois,
			WebArchive: cfg.Sources.WebArchive,
			Dorking:    cfg.Sources.Dorking,
			SocialScan: cfg.Sources.SocialScan,
		},
	}, nil
}
