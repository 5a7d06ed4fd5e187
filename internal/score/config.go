// Package score computes the priority score for an enriched lead. The
// opportunity half rewards gaps we can sell into (no website, no email,
// weak reviews) and the quality half rewards contactability (a named
// decision maker, a verified personal address). Weights load from YAML so
// a campaign can retune without a rebuild.
package score

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// OpportunityWeights are the points awarded per opportunity signal.
type OpportunityWeights struct {
	MissingWebsite   int `yaml:"missing_website"`
	MissingEmail     int `yaml:"missing_email"`
	OnlyGenericEmail int `yaml:"only_generic_email"`
	LowReviews       int `yaml:"low_reviews"`
	NoSocialPresence int `yaml:"no_social_presence"`
	SoleTrader       int `yaml:"sole_trader"`
	BusinessAge      int `yaml:"business_age"`
}

// QualityWeights are the points awarded per contactability signal.
type QualityWeights struct {
	DecisionMaker       int `yaml:"decision_maker"`
	PersonalEmail       int `yaml:"personal_email"`
	VerifiedEmail       int `yaml:"verified_email"`
	ProfessionalNetwork int `yaml:"professional_network"`
	GoodReviews         int `yaml:"good_reviews"`
	LocalDistance       int `yaml:"local_distance"`
}

// Weights is the full scoring configuration.
type Weights struct {
	Opportunity OpportunityWeights `yaml:"opportunity"`
	Quality     QualityWeights     `yaml:"quality"`

	// Blend: total = round(OpportunityShare*opp + QualityShare*qual) + Baseline,
	// clamped to [0, 100].
	OpportunityShare float64 `yaml:"opportunity_share"`
	QualityShare     float64 `yaml:"quality_share"`
	Baseline         int     `yaml:"baseline"`

	// Rank thresholds.
	HotThreshold  int `yaml:"hot_threshold"`
	HotMinQuality int `yaml:"hot_min_quality"`
	WarmThreshold int `yaml:"warm_threshold"`

	// Signal cutoffs.
	LowReviewCount      int     `yaml:"low_review_count"`
	GoodReviewCount     int     `yaml:"good_review_count"`
	MatureBusinessYears int     `yaml:"mature_business_years"`
	LocalRadiusKm       float64 `yaml:"local_radius_km"`
}

// DefaultWeights returns the standard campaign weighting.
func DefaultWeights() Weights {
	return Weights{
		Opportunity: OpportunityWeights{
			MissingWebsite:   20,
			MissingEmail:     15,
			OnlyGenericEmail: 10,
			LowReviews:       10,
			NoSocialPresence: 10,
			SoleTrader:       5,
			BusinessAge:      5,
		},
		Quality: QualityWeights{
			DecisionMaker:       15,
			PersonalEmail:       10,
			VerifiedEmail:       10,
			ProfessionalNetwork: 5,
			GoodReviews:         5,
			LocalDistance:       5,
		},

		OpportunityShare: 0.7,
		QualityShare:     0.3,
		Baseline:         30,

		HotThreshold:  75,
		HotMinQuality: 20,
		WarmThreshold: 55,

		LowReviewCount:      5,
		GoodReviewCount:     10,
		MatureBusinessYears: 10,
		LocalRadiusKm:       25,
	}
}

// LoadWeights reads a YAML weights file, layering it over the defaults so
// a partial file only overrides what it names.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return w, eris.Wrapf(err, "score: read weights %s", path)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, eris.Wrapf(err, "score: parse weights %s", path)
	}
	if err := ValidateWeights(w); err != nil {
		return w, err
	}
	return w, nil
}

// ValidateWeights checks that a Weights is internally consistent.
func ValidateWeights(w Weights) error {
	var errs []string

	points := map[string]int{
		"missing_website":      w.Opportunity.MissingWebsite,
		"missing_email":        w.Opportunity.MissingEmail,
		"only_generic_email":   w.Opportunity.OnlyGenericEmail,
		"low_reviews":          w.Opportunity.LowReviews,
		"no_social_presence":   w.Opportunity.NoSocialPresence,
		"sole_trader":          w.Opportunity.SoleTrader,
		"business_age":         w.Opportunity.BusinessAge,
		"decision_maker":       w.Quality.DecisionMaker,
		"personal_email":       w.Quality.PersonalEmail,
		"verified_email":       w.Quality.VerifiedEmail,
		"professional_network": w.Quality.ProfessionalNetwork,
		"good_reviews":         w.Quality.GoodReviews,
		"local_distance":       w.Quality.LocalDistance,
	}
	for name, p := range points {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if w.OpportunityShare < 0 || w.QualityShare < 0 {
		errs = append(errs, "blend shares must be >= 0")
	}
	if w.OpportunityShare+w.QualityShare <= 0 {
		errs = append(errs, "blend share sum must be > 0")
	}
	if w.Baseline < 0 || w.Baseline > 100 {
		errs = append(errs, "baseline must be between 0 and 100")
	}
	if w.WarmThreshold > w.HotThreshold {
		errs = append(errs, "warm_threshold must be <= hot_threshold")
	}
	if w.LowReviewCount > w.GoodReviewCount {
		errs = append(errs, "low_review_count must be <= good_review_count")
	}
	if w.LocalRadiusKm < 0 {
		errs = append(errs, "local_radius_km must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("score: weights validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
