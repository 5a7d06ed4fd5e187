package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	leadsRank     string
	leadsStatus   string
	leadsMinScore int
	leadsLimit    int
	leadsJSON     bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("leads"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			Status:   model.EnrichmentStatus(leadsStatus),
			Rank:     model.PriorityRank(leadsRank),
			MinScore: leadsMinScore,
			Limit:    leadsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		if leadsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tBUSINESS\tSTATUS\tSCORE\tRANK\tWEBSITE\tEMAILS")
		for i := range leads {
			lead := &leads[i]
			score, rank := 0, ""
			if lead.LeadScore != nil {
				score = lead.LeadScore.Total
				rank = string(lead.LeadScore.PriorityRank)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%d\n",
				lead.ID, lead.BusinessName, lead.Enrichment.Status,
				score, rank, lead.Website, len(lead.Emails))
		}
		return tw.Flush()
	},
}

func init() {
	leadsCmd.Flags().StringVar(&leadsRank, "rank", "", "filter by rank (hot/warm/cold)")
	leadsCmd.Flags().StringVar(&leadsStatus, "status", "", "filter by enrichment status")
	leadsCmd.Flags().IntVar(&leadsMinScore, "min-score", 0, "minimum total score")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 50, "max leads to list")
	leadsCmd.Flags().BoolVar(&leadsJSON, "json", false, "output JSON instead of a table")
	rootCmd.AddCommand(leadsCmd)
}
