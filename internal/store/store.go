// Package store persists enriched leads. Two drivers: embedded SQLite
// for single-user CLI runs and Postgres for the shared server deployment.
// Leads are stored as one JSON document with the hot filter columns
// denormalized alongside.
package store

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status   model.EnrichmentStatus `json:"status,omitempty"`
	Rank     model.PriorityRank     `json:"rank,omitempty"`
	MinScore int                    `json:"min_score,omitempty"`
	Limit    int                    `json:"limit,omitempty"`
	Offset   int                    `json:"offset,omitempty"`
}

// Store defines the lead persistence interface.
type Store interface {
	// SaveLead inserts or replaces a lead by id.
	SaveLead(ctx context.Context, lead *model.Lead) error
	// GetLead fetches a lead by id. A missing lead is (nil, nil).
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	// ListLeads returns leads matching the filter, highest score first.
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	// DeleteLead removes a lead by id. Deleting a missing lead is an error.
	DeleteLead(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
