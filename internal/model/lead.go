package model

import (
	"net/url"
	"strings"
	"time"
)

// EnrichmentStatus is the terminal-or-not state of an enrichment run.
type EnrichmentStatus string

const (
	EnrichmentStatusPending  EnrichmentStatus = "pending"
	EnrichmentStatusRunning  EnrichmentStatus = "running"
	EnrichmentStatusComplete EnrichmentStatus = "complete"
	EnrichmentStatusPartial  EnrichmentStatus = "partial"
	EnrichmentStatusFailed   EnrichmentStatus = "failed"
)

// Terminal reports whether the status is final. A lead is immutable once
// its enrichment reaches a terminal status.
func (s EnrichmentStatus) Terminal() bool {
	switch s {
	case EnrichmentStatusComplete, EnrichmentStatusPartial, EnrichmentStatusFailed:
		return true
	}
	return false
}

// AddressKind distinguishes a trading address from the registered-office
// address; both may coexist on one lead.
type AddressKind string

const (
	AddressKindTrading    AddressKind = "trading"
	AddressKindRegistered AddressKind = "registered"
)

// AddressRecord is one address with its kind and provenance.
type AddressRecord struct {
	Kind     AddressKind `json:"kind"`
	Address  string      `json:"address"`
	Postcode string      `json:"postcode,omitempty"`
	Source   Source      `json:"source"`
}

// SocialPlatform names a social network for the per-platform link map.
type SocialPlatform string

const (
	PlatformFacebook  SocialPlatform = "facebook"
	PlatformInstagram SocialPlatform = "instagram"
	PlatformTwitter   SocialPlatform = "twitter"
	PlatformLinkedIn  SocialPlatform = "linkedin"
	PlatformYouTube   SocialPlatform = "youtube"
	PlatformTikTok    SocialPlatform = "tiktok"
)

// EnrichmentMeta records how a run went: which sources contributed and
// which failed.
type EnrichmentMeta struct {
	Status     EnrichmentStatus `json:"status"`
	Sources    []string         `json:"sources"`
	Errors     []string         `json:"errors,omitempty"`
	EnrichedAt *time.Time       `json:"enriched_at,omitempty"`
}

// BasicBusiness is the minimal caller-supplied record an enrichment
// request starts from. Only Name is required.
type BasicBusiness struct {
	Name        string  `json:"name"`
	Website     string  `json:"website,omitempty"`
	Postcode    string  `json:"postcode,omitempty"`
	Address     string  `json:"address,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	Industry    string  `json:"industry,omitempty"`
	Rating      string  `json:"rating,omitempty"`
	ReviewCount string  `json:"review_count,omitempty"`
	DistanceKm  float64 `json:"distance_km,omitempty"`
}

// Lead is the consolidated record produced by one enrichment run.
type Lead struct {
	ID            string                    `json:"id"`
	BusinessName  string                    `json:"business_name"`
	Website       string                    `json:"website,omitempty"`
	WebsiteSource Source                    `json:"website_source,omitempty"`
	Emails        []EmailCandidate          `json:"emails,omitempty"`
	Phones        []PhoneCandidate          `json:"phones,omitempty"`
	Addresses     []AddressRecord           `json:"addresses,omitempty"`
	SocialMedia   map[SocialPlatform]string `json:"social_media,omitempty"`
	RegistryMatch *RegistryRecord           `json:"registry_match,omitempty"`
	People        []Person                  `json:"people,omitempty"`
	Industry      string                    `json:"industry,omitempty"`
	Rating        string                    `json:"rating,omitempty"`
	ReviewCount   string                    `json:"review_count,omitempty"`
	DistanceKm    float64                   `json:"distance_km,omitempty"`
	Enrichment    EnrichmentMeta            `json:"enrichment"`
	LeadScore     *LeadScore                `json:"lead_score,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// Domain returns the bare host of the lead's website, without scheme,
// "www." prefix, port, or path. Empty when no website is known.
func (l *Lead) Domain() string {
	return DomainOf(l.Website)
}

// DomainOf extracts a bare lowercase host from a URL or host string.
func DomainOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
