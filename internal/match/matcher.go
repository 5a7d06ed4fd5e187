package match

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/geo"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Registry is the slice of the registry API the matcher needs: ranked name
// search plus a secondary lookup by opaque id for officers and industry
// codes.
type Registry interface {
	Search(ctx context.Context, name string) ([]model.RegistryRecord, error)
	Company(ctx context.Context, registryID string) (*model.RegistryRecord, error)
}

// Score adjustments applied after the base similarity. Locality bonuses
// disambiguate short or common names; dissolved companies are penalized,
// heavily so when long dead.
const (
	acceptThreshold = 0.5

	postcodeExactBonus   = 0.4
	postcodeOutwardBonus = 0.25
	postcodeAreaBonus    = 0.1
	activeBonus          = 0.1
	dissolvedPenalty     = -0.2
	longDissolvedPenalty = -0.3
	longDissolvedYears   = 5
)

// Matcher resolves business names against the registry.
type Matcher struct {
	registry Registry
	now      func() time.Time
}

// NewMatcher creates a Matcher backed by the given registry client.
func NewMatcher(registry Registry) *Matcher {
	return &Matcher{registry: registry, now: time.Now}
}

// WithNow fixes the clock for testing dissolution-age penalties.
func (m *Matcher) WithNow(now func() time.Time) *Matcher {
	m.now = now
	return m
}

// Match resolves a free-text business name to its best-scoring registry
// candidate, or nil when nothing reaches the acceptance threshold.
// A nil result with a nil error is "not found", not a failure.
func (m *Matcher) Match(ctx context.Context, name, postcode string) (*model.RegistryRecord, error) {
	log := zap.L().With(zap.String("business", name))

	candidates, err := m.searchVariations(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		log.Debug("match: no registry candidates")
		return nil, nil
	}

	best := m.pickBest(name, postcode, candidates)
	if best == nil {
		log.Debug("match: no candidate above threshold", zap.Int("candidates", len(candidates)))
		return nil, nil
	}

	log.Info("match: registry candidate accepted",
		zap.String("registry_id", best.RegistryID),
		zap.String("official_name", best.OfficialName),
		zap.Float64("score", best.MatchScore),
	)

	// Secondary lookup fills in officers and industry codes. Best effort:
	// the search-level record is still a valid match if it fails.
	full, err := m.registry.Company(ctx, best.RegistryID)
	if err != nil {
		log.Warn("match: company profile lookup failed", zap.Error(err))
		return best, nil
	}
	full.MatchScore = best.MatchScore
	return full, nil
}

// searchVariations queries the registry for each name variation and merges
// the result sets, deduplicated by registry id in first-seen order. A
// variation's failure is tolerated while any other succeeds.
func (m *Matcher) searchVariations(ctx context.Context, name string) ([]model.RegistryRecord, error) {
	var (
		merged   []model.RegistryRecord
		seen     = make(map[string]bool)
		firstErr error
		anyOK    bool
	)

	for _, variation := range Variations(name) {
		results, err := m.registry.Search(ctx, variation)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			zap.L().Warn("match: search variation failed",
				zap.String("variation", variation),
				zap.Error(err),
			)
			continue
		}
		anyOK = true
		for _, r := range results {
			if r.RegistryID == "" || seen[r.RegistryID] {
				continue
			}
			seen[r.RegistryID] = true
			merged = append(merged, r)
		}
	}

	if !anyOK {
		return nil, firstErr
	}
	return merged, nil
}

// pickBest scores every candidate and returns the max-scoring one if it
// reaches the acceptance threshold. Ties keep the first-seen candidate.
func (m *Matcher) pickBest(name, postcode string, candidates []model.RegistryRecord) *model.RegistryRecord {
	var best *model.RegistryRecord
	bestScore := 0.0

	for i := range candidates {
		score := m.ScoreCandidate(name, postcode, &candidates[i])
		if best == nil || score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}

	if best == nil || !Accepts(bestScore) {
		return nil
	}
	out := *best
	out.MatchScore = bestScore
	return &out
}

// Accepts reports whether an adjusted candidate score clears the
// acceptance threshold. The boundary itself is accepted.
func Accepts(score float64) bool {
	return score >= acceptThreshold
}

// ScoreCandidate computes the adjusted similarity score for one candidate.
func (m *Matcher) ScoreCandidate(name, postcode string, candidate *model.RegistryRecord) float64 {
	score := Similarity(name, candidate.OfficialName)

	switch {
	case geo.SamePostcode(postcode, candidate.PostalCode):
		score += postcodeExactBonus
	case geo.SameOutward(postcode, candidate.PostalCode):
		score += postcodeOutwardBonus
	case geo.SameArea(postcode, candidate.PostalCode):
		score += postcodeAreaBonus
	}

	switch candidate.Status {
	case model.CompanyStatusActive:
		score += activeBonus
	case model.CompanyStatusDissolved:
		score += dissolvedPenalty
		if candidate.DissolutionDate != nil &&
			m.now().Sub(*candidate.DissolutionDate) > longDissolvedYears*365*24*time.Hour {
			score += longDissolvedPenalty
		}
	}

	return score
}
