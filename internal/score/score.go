package score

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// neutralTotal is assigned when enrichment failed outright: the lead is
// unknowable, not bad, so it lands mid-scale and ranks cold.
const neutralTotal = 50

// Scorer turns an enriched lead into a LeadScore under a fixed weighting.
type Scorer struct {
	weights Weights
	now     func() time.Time
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Scorer) WithNow(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes the full score for a lead. The score is recomputed from
// scratch every run; nothing carries over from a previous scoring.
func (s *Scorer) Score(lead *model.Lead) *model.LeadScore {
	if lead.Enrichment.Status == model.EnrichmentStatusFailed {
		return &model.LeadScore{
			Total:        neutralTotal,
			PriorityRank: model.PriorityCold,
		}
	}

	breakdown := make(map[string]int)
	opportunity := s.scoreOpportunity(lead, breakdown)
	quality := s.scoreQuality(lead, breakdown)

	w := s.weights
	total := int(math.Round(w.OpportunityShare*float64(opportunity)+w.QualityShare*float64(quality))) + w.Baseline
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	rank := model.PriorityCold
	switch {
	case total >= w.HotThreshold && quality >= w.HotMinQuality:
		rank = model.PriorityHot
	case total >= w.WarmThreshold:
		rank = model.PriorityWarm
	}

	zap.L().Debug("score: lead scored",
		zap.String("business", lead.BusinessName),
		zap.Int("opportunity", opportunity),
		zap.Int("quality", quality),
		zap.Int("total", total),
		zap.String("rank", string(rank)),
	)

	return &model.LeadScore{
		Breakdown:        breakdown,
		OpportunityScore: opportunity,
		QualityScore:     quality,
		Total:            total,
		PriorityRank:     rank,
	}
}

// scoreOpportunity awards points for the gaps that make a business worth
// approaching: the weaker its digital presence, the more it needs help.
func (s *Scorer) scoreOpportunity(lead *model.Lead, breakdown map[string]int) int {
	w := s.weights.Opportunity
	total := 0
	award := func(key string, points int) {
		breakdown[key] = points
		total += points
	}

	if lead.Website == "" {
		award("missingWebsite", w.MissingWebsite)
	}

	switch {
	case len(lead.Emails) == 0:
		award("missingEmail", w.MissingEmail)
	case allGeneric(lead.Emails):
		award("onlyGenericEmail", w.OnlyGenericEmail)
	}

	if reviewCount(lead.ReviewCount) < s.weights.LowReviewCount {
		award("lowReviews", w.LowReviews)
	}
	if len(lead.SocialMedia) == 0 {
		award("noSocialPresence", w.NoSocialPresence)
	}
	if lead.RegistryMatch == nil {
		award("soleTrader", w.SoleTrader)
	} else if lead.RegistryMatch.AgeYears(s.now()) > s.weights.MatureBusinessYears {
		// Long-established and still under-digitized is the strongest
		// signal the gap is neglect, not a startup ramp.
		award("businessAge", w.BusinessAge)
	}

	return total
}

// scoreQuality awards points for how actionable the lead is: whether we
// found a real person and a mailbox worth writing to.
func (s *Scorer) scoreQuality(lead *model.Lead, breakdown map[string]int) int {
	w := s.weights.Quality
	total := 0
	award := func(key string, points int) {
		breakdown[key] = points
		total += points
	}

	hasDecisionMaker := false
	hasProfile := false
	for _, p := range lead.People {
		if p.IsDecisionMaker() {
			hasDecisionMaker = true
		}
		if p.ProfileURL != "" {
			hasProfile = true
		}
	}
	if hasDecisionMaker {
		award("decisionMaker", w.DecisionMaker)
	}
	if hasProfile {
		award("profNetwork", w.ProfessionalNetwork)
	}

	hasPersonal := false
	hasVerified := false
	for _, e := range lead.Emails {
		if e.Role == model.EmailRolePersonal {
			hasPersonal = true
		}
		if e.Verified {
			hasVerified = true
		}
	}
	if hasPersonal {
		award("personalEmail", w.PersonalEmail)
	}
	if hasVerified {
		award("verifiedEmail", w.VerifiedEmail)
	}

	if reviewCount(lead.ReviewCount) >= s.weights.GoodReviewCount {
		award("goodReviews", w.GoodReviews)
	}
	if lead.DistanceKm > 0 && lead.DistanceKm <= s.weights.LocalRadiusKm {
		award("localDistance", w.LocalDistance)
	}

	return total
}

func allGeneric(emails []model.EmailCandidate) bool {
	for _, e := range emails {
		if e.Role != model.EmailRoleGeneric {
			return false
		}
	}
	return true
}

// reviewCount parses a free-text review count like "47", "1,234" or
// "(12)". Unparseable or empty counts as zero: no visible reviews is the
// signal either way.
func reviewCount(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
