// Package extract holds the shared text-extraction helpers used by the
// source collectors: email, UK phone, and UK postcode patterns. Per-site
// HTML parsing stays inside each collector; only the patterns common to
// all of them live here.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// emailNoise filters addresses that are artifacts rather than contacts:
// documentation placeholders, image filenames picked up from srcset
// attributes, and error-tracker ingest addresses.
var emailNoise = []string{
	"example.", "domain.", "email.", "yourname", "@2x",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg",
	"sentry.io", "wixpress.com",
}

// Emails returns the deduplicated email addresses found in text, in first
// appearance order, with noise addresses filtered out.
func Emails(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range emailPattern.FindAllString(text, -1) {
		addr := model.NormalizeEmail(m)
		if seen[addr] || isNoise(addr) {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

func isNoise(addr string) bool {
	for _, n := range emailNoise {
		if strings.Contains(addr, n) {
			return true
		}
	}
	return false
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:\+44|0)[\s.\-]?\d{2,4}[\s.\-]?\d{3,4}[\s.\-]?\d{3,4}`),
	regexp.MustCompile(`(?:\+44|0)\s?\d{10,11}`),
	regexp.MustCompile(`\d{5}\s?\d{6}`),
}

// Phones returns the deduplicated UK phone numbers found in text, keyed by
// their digit form so formatting variants collapse.
func Phones(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range phonePatterns {
		for _, m := range p.FindAllString(text, -1) {
			key := model.PhoneKey(m)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(m))
		}
	}
	return out
}

var postcodePattern = regexp.MustCompile(`(?i)[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}`)

// Postcode returns the first UK postcode found in text, uppercased with a
// single separating space, or "" if none is present.
func Postcode(text string) string {
	m := postcodePattern.FindString(text)
	if m == "" {
		return ""
	}
	compact := strings.ToUpper(strings.Join(strings.Fields(m), ""))
	if len(compact) < 5 {
		return strings.ToUpper(m)
	}
	return compact[:len(compact)-3] + " " + compact[len(compact)-3:]
}

// socialHosts maps URL substrings to platforms. Share/widget paths are
// excluded so a "share on facebook" button is not mistaken for a profile.
var socialHosts = map[model.SocialPlatform]*regexp.Regexp{
	model.PlatformFacebook:  regexp.MustCompile(`https?://(?:www\.)?facebook\.com/(?:[\w.\-]+)`),
	model.PlatformInstagram: regexp.MustCompile(`https?://(?:www\.)?instagram\.com/(?:[\w.\-]+)`),
	model.PlatformTwitter:   regexp.MustCompile(`https?://(?:www\.)?(?:twitter|x)\.com/(?:[\w]+)`),
	model.PlatformLinkedIn:  regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/(?:company|in)/[\w\-%.]+`),
	model.PlatformYouTube:   regexp.MustCompile(`https?://(?:www\.)?youtube\.com/(?:channel|user|c|@)[\w/\-@]*`),
	model.PlatformTikTok:    regexp.MustCompile(`https?://(?:www\.)?tiktok\.com/@[\w.\-]+`),
}

var socialExcluded = []string{"sharer", "share?", "/intent/", "/plugins/", "login"}

// SocialLinks returns the first profile link found per platform.
func SocialLinks(text string) map[model.SocialPlatform]string {
	out := make(map[model.SocialPlatform]string)
	// Deterministic platform order for stable first-match selection.
	platforms := make([]model.SocialPlatform, 0, len(socialHosts))
	for p := range socialHosts {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	for _, platform := range platforms {
		for _, m := range socialHosts[platform].FindAllString(text, -1) {
			if isExcludedSocial(m) {
				continue
			}
			out[platform] = m
			break
		}
	}
	return out
}

func isExcludedSocial(link string) bool {
	lower := strings.ToLower(link)
	for _, ex := range socialExcluded {
		if strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}

var multiSpace = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace into single spaces and trims.
func CleanText(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}
