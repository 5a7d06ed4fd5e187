package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/score"
)

var enrichInput model.BasicBusiness

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single business",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("enrich"); err != nil {
			return err
		}

		ctx := cmd.Context()
		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lead := env.Orch.Enrich(ctx, enrichInput, env.Toggles)

		if err := env.Store.SaveLead(ctx, lead); err != nil {
			return eris.Wrap(err, "save lead")
		}

		zap.L().Info("enrichment finished",
			zap.String("lead_id", lead.ID),
			zap.String("business", lead.BusinessName),
			zap.String("status", string(lead.Enrichment.Status)),
			zap.Int("score", lead.LeadScore.Total),
			zap.String("rank", string(lead.LeadScore.PriorityRank)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(leadResponse{Lead: lead, Signals: score.Signals(lead.LeadScore)})
	},
}

// leadResponse is the enrich-one output: the lead plus readable signals.
type leadResponse struct {
	*model.Lead
	Signals []string `json:"signals,omitempty"`
}

func init() {
	f := enrichCmd.Flags()
	f.StringVar(&enrichInput.Name, "name", "", "business name (required)")
	f.StringVar(&enrichInput.Postcode, "postcode", "", "UK postcode")
	f.StringVar(&enrichInput.Website, "website", "", "known website URL")
	f.StringVar(&enrichInput.Address, "address", "", "street address")
	f.StringVar(&enrichInput.Phone, "phone", "", "known phone number")
	f.StringVar(&enrichInput.Email, "email", "", "known email address")
	f.StringVar(&enrichInput.Industry, "industry", "", "industry label")
	f.StringVar(&enrichInput.Rating, "rating", "", "review rating, e.g. 4.5")
	f.StringVar(&enrichInput.ReviewCount, "reviews", "", "review count, e.g. 27")
	_ = enrichCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(enrichCmd)
}
