package model

// PriorityRank is the coarse triage bucket derived from the numeric score.
type PriorityRank string

const (
	PriorityHot  PriorityRank = "hot"
	PriorityWarm PriorityRank = "warm"
	PriorityCold PriorityRank = "cold"
)

// LeadScore is the derived priority score for a lead. It is recomputed in
// full once per enrichment run, never partially updated.
type LeadScore struct {
	Breakdown        map[string]int `json:"breakdown"`
	OpportunityScore int            `json:"opportunity_score"`
	QualityScore     int            `json:"quality_score"`
	Total            int            `json:"total"`
	PriorityRank     PriorityRank   `json:"priority_rank"`
}
