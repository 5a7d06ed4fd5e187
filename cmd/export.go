package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/score"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	exportOutPath  string
	exportRank     string
	exportMinScore int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads to an XLSX spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
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
			Rank:     model.PriorityRank(exportRank),
			MinScore: exportMinScore,
			Limit:    10000,
		})
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		if err := writeLeadsXLSX(exportOutPath, leads); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.Int("leads", len(leads)),
			zap.String("path", exportOutPath),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutPath, "out", "leads.xlsx", "output file path")
	exportCmd.Flags().StringVar(&exportRank, "rank", "", "only export leads with this rank (hot/warm/cold)")
	exportCmd.Flags().IntVar(&exportMinScore, "min-score", 0, "only export leads scoring at least this")
	rootCmd.AddCommand(exportCmd)
}

var exportHeader = []string{
	"Business Name", "Status", "Score", "Rank", "Website", "Emails",
	"Phones", "People", "Company Number", "Postcode", "Distance (km)", "Signals",
}

// writeLeadsXLSX writes one row per lead with contact details flattened
// into semicolon-separated cells.
func writeLeadsXLSX(path string, leads []model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range exportHeader {
		header.AddCell().Value = h
	}

	for i := range leads {
		lead := &leads[i]
		row := sheet.AddRow()

		row.AddCell().Value = lead.BusinessName
		row.AddCell().Value = string(lead.Enrichment.Status)
		if lead.LeadScore != nil {
			row.AddCell().SetInt(lead.LeadScore.Total)
			row.AddCell().Value = string(lead.LeadScore.PriorityRank)
		} else {
			row.AddCell()
			row.AddCell()
		}
		row.AddCell().Value = lead.Website

		emails := make([]string, 0, len(lead.Emails))
		for _, e := range lead.Emails {
			emails = append(emails, e.Address)
		}
		row.AddCell().Value = strings.Join(emails, "; ")

		phones := make([]string, 0, len(lead.Phones))
		for _, p := range lead.Phones {
			phones = append(phones, p.Number)
		}
		row.AddCell().Value = strings.Join(phones, "; ")

		people := make([]string, 0, len(lead.People))
		for _, p := range lead.People {
			if p.Role != "" {
				people = append(people, p.Name+" ("+p.Role+")")
			} else {
				people = append(people, p.Name)
			}
		}
		row.AddCell().Value = strings.Join(people, "; ")

		var companyNumber, postcode string
		if lead.RegistryMatch != nil {
			companyNumber = lead.RegistryMatch.RegistryID
			postcode = lead.RegistryMatch.PostalCode
		}
		row.AddCell().Value = companyNumber
		row.AddCell().Value = postcode

		if lead.DistanceKm > 0 {
			row.AddCell().SetFloatWithFormat(lead.DistanceKm, "0.0")
		} else {
			row.AddCell()
		}

		row.AddCell().Value = strings.Join(score.Signals(lead.LeadScore), "; ")
	}

	return eris.Wrap(f.Save(path), "export: save xlsx")
}
