package model

import "time"

// CompanyStatus is the registry's view of a company's lifecycle.
type CompanyStatus string

const (
	CompanyStatusActive      CompanyStatus = "active"
	CompanyStatusDissolved   CompanyStatus = "dissolved"
	CompanyStatusDormant     CompanyStatus = "dormant"
	CompanyStatusLiquidation CompanyStatus = "liquidation"
	CompanyStatusUnknown     CompanyStatus = "unknown"
)

// ParseCompanyStatus maps a registry status string onto the closed set.
func ParseCompanyStatus(s string) CompanyStatus {
	switch CompanyStatus(s) {
	case CompanyStatusActive, CompanyStatusDissolved, CompanyStatusDormant, CompanyStatusLiquidation:
		return CompanyStatus(s)
	default:
		return CompanyStatusUnknown
	}
}

// IndustryCode is a registry industry classification (SIC code).
type IndustryCode struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// RegistryRecord is the resolved official-company record for a business.
type RegistryRecord struct {
	RegistryID        string         `json:"registry_id"`
	OfficialName      string         `json:"official_name"`
	Status            CompanyStatus  `json:"status"`
	Type              string         `json:"type,omitempty"`
	IncorporationDate *time.Time     `json:"incorporation_date,omitempty"`
	DissolutionDate   *time.Time     `json:"dissolution_date,omitempty"`
	RegisteredAddress string         `json:"registered_address,omitempty"`
	PostalCode        string         `json:"postal_code,omitempty"`
	IndustryCodes     []IndustryCode `json:"industry_codes,omitempty"`
	Officers          []Person       `json:"officers,omitempty"`
	MatchScore        float64        `json:"match_score,omitempty"`
}

// AgeYears returns whole years since incorporation, or 0 when unknown.
func (r *RegistryRecord) AgeYears(now time.Time) int {
	if r == nil || r.IncorporationDate == nil {
		return 0
	}
	years := now.Year() - r.IncorporationDate.Year()
	if now.YearDay() < r.IncorporationDate.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
