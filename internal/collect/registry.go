package collect

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/companieshouse"
)

// RegistryAdapter exposes the Companies House client as the ranked-search
// registry the matcher consumes, converting wire records to model types.
type RegistryAdapter struct {
	client companieshouse.Client
}

// NewRegistryAdapter wraps a Companies House client.
func NewRegistryAdapter(client companieshouse.Client) *RegistryAdapter {
	return &RegistryAdapter{client: client}
}

// Search runs a name search and converts the hits.
func (a *RegistryAdapter) Search(ctx context.Context, name string) ([]model.RegistryRecord, error) {
	resp, err := a.client.SearchCompanies(ctx, name)
	if err != nil {
		return nil, eris.Wrap(err, "collect: registry search")
	}

	records := make([]model.RegistryRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		rec := model.RegistryRecord{
			RegistryID:        item.CompanyNumber,
			OfficialName:      item.Title,
			Status:            model.ParseCompanyStatus(item.CompanyStatus),
			Type:              item.CompanyType,
			IncorporationDate: parseDate(item.DateOfCreation),
			DissolutionDate:   parseDate(item.DateOfCessation),
		}
		if item.Address != nil {
			rec.RegisteredAddress = joinAddress(item.Address)
			rec.PostalCode = item.Address.PostalCode
		}
		records = append(records, rec)
	}
	return records, nil
}

// Company fetches the full profile and active officers for a company
// number. A missing officers list is tolerated; the profile alone is
// still a useful record.
func (a *RegistryAdapter) Company(ctx context.Context, registryID string) (*model.RegistryRecord, error) {
	profile, err := a.client.CompanyProfile(ctx, registryID)
	if err != nil {
		return nil, eris.Wrap(err, "collect: registry profile")
	}

	rec := &model.RegistryRecord{
		RegistryID:        profile.CompanyNumber,
		OfficialName:      profile.CompanyName,
		Status:            model.ParseCompanyStatus(profile.CompanyStatus),
		Type:              profile.Type,
		IncorporationDate: parseDate(profile.DateOfCreation),
		DissolutionDate:   parseDate(profile.DateOfCessation),
	}
	if profile.RegisteredAddress != nil {
		rec.RegisteredAddress = joinAddress(profile.RegisteredAddress)
		rec.PostalCode = profile.RegisteredAddress.PostalCode
	}
	for _, code := range profile.SICCodes {
		rec.IndustryCodes = append(rec.IndustryCodes, model.IndustryCode{Code: code})
	}

	officers, err := a.client.Officers(ctx, registryID)
	if err != nil {
		zap.L().Warn("officers lookup failed, keeping bare profile",
			zap.String("registry_id", registryID), zap.Error(err))
		return rec, nil
	}
	for _, o := range officers.Items {
		if o.ResignedOn != "" {
			continue
		}
		first, last := model.SplitName(o.Name)
		rec.Officers = append(rec.Officers, model.Person{
			Name:      officerDisplayName(first, last, o.Name),
			FirstName: first,
			LastName:  last,
			Role:      o.OfficerRole,
			Source:    model.SourceRegistry,
		})
	}
	return rec, nil
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func joinAddress(a *companieshouse.RegisteredAddr) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.AddressLine1, a.AddressLine2, a.Locality, a.Region, a.PostalCode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

func officerDisplayName(first, last, raw string) string {
	if first != "" && last != "" {
		return first + " " + last
	}
	return strings.TrimSpace(raw)
}
