package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestWriteLeadsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	leads := []model.Lead{
		{
			ID:           "lead-1",
			BusinessName: "Acme Plumbing",
			Website:      "https://acmeplumbing.co.uk",
			Emails: []model.EmailCandidate{
				{Address: "info@acmeplumbing.co.uk"},
				{Address: "jane@acmeplumbing.co.uk"},
			},
			Phones: []model.PhoneCandidate{{Number: "+441134960000"}},
			People: []model.Person{{Name: "Jane Doe", Role: "Director"}},
			RegistryMatch: &model.RegistryRecord{
				RegistryID: "01234567",
				PostalCode: "LS1 1AA",
			},
			DistanceKm: 12.5,
			Enrichment: model.EnrichmentMeta{Status: model.EnrichmentStatusComplete},
			LeadScore: &model.LeadScore{
				Total:        72,
				PriorityRank: model.PriorityWarm,
				Breakdown:    map[string]int{"decisionMaker": 15},
			},
		},
		{
			ID:           "lead-2",
			BusinessName: "Beta Roofing",
			Enrichment:   model.EnrichmentMeta{Status: model.EnrichmentStatusFailed},
		},
	}

	require.NoError(t, writeLeadsXLSX(path, leads))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 3, "header plus one row per lead")

	header := sheet.Rows[0]
	assert.Equal(t, "Business Name", header.Cells[0].String())
	assert.Equal(t, "Signals", header.Cells[len(exportHeader)-1].String())

	row := sheet.Rows[1]
	assert.Equal(t, "Acme Plumbing", row.Cells[0].String())
	assert.Equal(t, "complete", row.Cells[1].String())
	assert.Equal(t, "72", row.Cells[2].String())
	assert.Equal(t, "warm", row.Cells[3].String())
	assert.Equal(t, "info@acmeplumbing.co.uk; jane@acmeplumbing.co.uk", row.Cells[5].String())
	assert.Equal(t, "Jane Doe (Director)", row.Cells[7].String())
	assert.Equal(t, "01234567", row.Cells[8].String())
	assert.Equal(t, "decision maker identified", row.Cells[11].String())

	// An unscored lead still exports, with score cells left blank.
	row = sheet.Rows[2]
	assert.Equal(t, "Beta Roofing", row.Cells[0].String())
	assert.Equal(t, "failed", row.Cells[1].String())
}
